// Package theme holds the built-in invoice themes and the user's
// customizations on top of the active one.
package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultID is the theme applied on start and on reset
const DefaultID = "default"

// Bounds on the size of the catalog
const (
	MinThemes = 5
	MaxThemes = 10
)

var (
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidConfig = errors.New("invalid theme configuration")
)

var validate = validator.New()

// Customizations are user overrides layered over the active theme
type Customizations struct {
	Colors Colors `yaml:"colors,omitempty"`
	Fonts  Fonts  `yaml:"fonts,omitempty"`
	Layout Layout `yaml:"layout,omitempty"`
}

// IsZero reports whether no override is set
func (c Customizations) IsZero() bool {
	return c == Customizations{}
}

// Config is the exportable state of a Manager
type Config struct {
	CurrentTheme   string         `yaml:"current_theme"`
	Customizations Customizations `yaml:"customizations,omitempty"`
}

// Manager tracks the active theme and its customizations.
// It is not safe for concurrent use.
type Manager struct {
	current string
	custom  Customizations
}

// NewManager returns a manager with the default theme active
func NewManager() *Manager {
	return &Manager{current: DefaultID}
}

// Get returns a built-in theme by id
func Get(id string) (Theme, error) {
	t, ok := builtin[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	return t, nil
}

// Exists reports whether id names a built-in theme
func Exists(id string) bool {
	_, err := Get(id)
	return err == nil
}

// All returns the built-in themes in display order
func All() []Theme {
	out := make([]Theme, 0, len(order))
	for _, id := range order {
		out = append(out, builtin[id])
	}
	return out
}

// Count returns the number of built-in themes
func Count() int {
	return len(builtin)
}

// ValidateCount checks the catalog holds between MinThemes and MaxThemes themes
func ValidateCount() error {
	if n := Count(); n < MinThemes || n > MaxThemes {
		return fmt.Errorf("theme catalog has %d themes, want %d-%d", n, MinThemes, MaxThemes)
	}
	return nil
}

// AvailableFonts returns the offered font stacks by family
func AvailableFonts() map[string][]string {
	out := make(map[string][]string, len(availableFonts))
	for family, fonts := range availableFonts {
		out[family] = append([]string(nil), fonts...)
	}
	return out
}

// ValidateFonts checks that every font family offers at least one font
func ValidateFonts() error {
	for _, family := range []string{"sans-serif", "serif", "monospace"} {
		if len(availableFonts[family]) == 0 {
			return fmt.Errorf("no %s font available", family)
		}
	}
	return nil
}

// Current returns the id of the active theme
func (m *Manager) Current() string {
	return m.current
}

// Customizations returns the active overrides
func (m *Manager) Customizations() Customizations {
	return m.custom
}

// Apply switches the active theme. Customizations are kept.
func (m *Manager) Apply(id string) error {
	t, err := Get(id)
	if err != nil {
		return err
	}
	m.current = t.ID
	return nil
}

// Effective returns the active theme with customizations applied
func (m *Manager) Effective() Theme {
	t := builtin[m.current]
	mergeColors(&t.Colors, m.custom.Colors)
	mergeFonts(&t.Fonts, m.custom.Fonts)
	mergeLayout(&t.Layout, m.custom.Layout)
	return t
}

// CustomizeColors merges the non-empty colors into the overrides
func (m *Manager) CustomizeColors(c Colors) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	mergeColors(&m.custom.Colors, c)
	return nil
}

// CustomizeFonts merges the non-empty fonts into the overrides
func (m *Manager) CustomizeFonts(f Fonts) {
	mergeFonts(&m.custom.Fonts, f)
}

// CustomizeLayout merges the non-empty layout values into the overrides
func (m *Manager) CustomizeLayout(l Layout) error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	mergeLayout(&m.custom.Layout, l)
	return nil
}

// Reset activates the default theme and drops all customizations
func (m *Manager) Reset() {
	m.current = DefaultID
	m.custom = Customizations{}
}

// Export returns the current configuration
func (m *Manager) Export() Config {
	return Config{CurrentTheme: m.current, Customizations: m.custom}
}

// Import applies a configuration. An empty theme keeps the active one.
func (m *Manager) Import(cfg Config) error {
	if cfg.CurrentTheme != "" {
		if err := m.Apply(cfg.CurrentTheme); err != nil {
			return err
		}
	}
	if err := m.CustomizeColors(cfg.Customizations.Colors); err != nil {
		return err
	}
	m.CustomizeFonts(cfg.Customizations.Fonts)
	return m.CustomizeLayout(cfg.Customizations.Layout)
}

// MarshalConfig encodes the current configuration as YAML
func (m *Manager) MarshalConfig() ([]byte, error) {
	return yaml.Marshal(m.Export())
}

// UnmarshalConfig decodes a YAML configuration and imports it
func (m *Manager) UnmarshalConfig(data []byte) error {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return m.Import(cfg)
}

// RGB parses a "#rrggbb" or "#rgb" color
func RGB(hex string) (r, g, b int, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

func mergeColors(dst *Colors, src Colors) {
	set(&dst.Primary, src.Primary)
	set(&dst.Secondary, src.Secondary)
	set(&dst.Accent, src.Accent)
	set(&dst.Text, src.Text)
	set(&dst.Background, src.Background)
	set(&dst.Border, src.Border)
	set(&dst.HeaderBg, src.HeaderBg)
}

func mergeFonts(dst *Fonts, src Fonts) {
	set(&dst.Header, src.Header)
	set(&dst.Body, src.Body)
	set(&dst.Numbers, src.Numbers)
}

func mergeLayout(dst *Layout, src Layout) {
	set(&dst.HeaderHeight, src.HeaderHeight)
	set(&dst.Margins, src.Margins)
	set(&dst.BorderRadius, src.BorderRadius)
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
