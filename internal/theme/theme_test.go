package theme

import (
	"errors"
	"testing"
)

func TestCatalog(t *testing.T) {
	if err := ValidateCount(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFonts(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := All()
	if len(all) != 7 {
		t.Fatalf("expected 7 themes, got %d", len(all))
	}
	if all[0].ID != DefaultID {
		t.Fatalf("expected default theme first, got %q", all[0].ID)
	}
	for _, th := range all {
		for _, c := range []string{th.Colors.Primary, th.Colors.Text, th.Colors.Background, th.Colors.HeaderBg} {
			if _, _, _, err := RGB(c); err != nil {
				t.Fatalf("theme %s has invalid color %q: %v", th.ID, c, err)
			}
		}
	}
}

func TestManager_ApplyAndCustomize(t *testing.T) {
	m := NewManager()

	if err := m.Apply("nope"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if m.Current() != DefaultID {
		t.Fatalf("failed apply must keep the current theme, got %q", m.Current())
	}

	if err := m.Apply("Modern"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.CustomizeColors(Colors{Primary: "#ff0000"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.CustomizeFonts(Fonts{Body: "'Georgia', serif"})

	eff := m.Effective()
	if eff.ID != "modern" {
		t.Fatalf("expected modern, got %q", eff.ID)
	}
	if eff.Colors.Primary != "#ff0000" {
		t.Fatalf("expected customized primary, got %q", eff.Colors.Primary)
	}
	if eff.Colors.Accent != "#f59e0b" {
		t.Fatalf("expected theme accent to survive, got %q", eff.Colors.Accent)
	}
	if eff.Fonts.Body != "'Georgia', serif" || eff.Fonts.Header != "'Poppins', sans-serif" {
		t.Fatalf("unexpected fonts: %+v", eff.Fonts)
	}

	if err := m.CustomizeColors(Colors{Text: "red"}); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if err := m.CustomizeLayout(Layout{Margins: "2em"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	m.Reset()
	if m.Current() != DefaultID || !m.Customizations().IsZero() {
		t.Fatalf("expected reset state, got %q %+v", m.Current(), m.Customizations())
	}
}

func TestManager_ExportImport(t *testing.T) {
	src := NewManager()
	_ = src.Apply("elegant")
	_ = src.CustomizeColors(Colors{Accent: "#00ff00"})
	_ = src.CustomizeLayout(Layout{BorderRadius: "2px"})

	data, err := src.MarshalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := NewManager()
	if err := dst.UnmarshalConfig(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Export() != src.Export() {
		t.Fatalf("expected %+v, got %+v", src.Export(), dst.Export())
	}

	if err := dst.UnmarshalConfig([]byte("current_theme: [")); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRGB(t *testing.T) {
	r, g, b, err := RGB("#2563eb")
	if err != nil || r != 0x25 || g != 0x63 || b != 0xeb {
		t.Fatalf("unexpected result %d %d %d %v", r, g, b, err)
	}
	r, g, b, err = RGB("#fff")
	if err != nil || r != 255 || g != 255 || b != 255 {
		t.Fatalf("unexpected result %d %d %d %v", r, g, b, err)
	}
	if _, _, _, err := RGB("#12"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}
