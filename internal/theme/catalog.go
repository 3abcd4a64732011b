package theme

// Colors of a theme. Empty fields in a customization mean "keep the theme value".
type Colors struct {
	Primary    string `yaml:"primary,omitempty" validate:"omitempty,hexcolor"`
	Secondary  string `yaml:"secondary,omitempty" validate:"omitempty,hexcolor"`
	Accent     string `yaml:"accent,omitempty" validate:"omitempty,hexcolor"`
	Text       string `yaml:"text,omitempty" validate:"omitempty,hexcolor"`
	Background string `yaml:"background,omitempty" validate:"omitempty,hexcolor"`
	Border     string `yaml:"border,omitempty" validate:"omitempty,hexcolor"`
	HeaderBg   string `yaml:"header_bg,omitempty" validate:"omitempty,hexcolor"`
}

// Fonts are CSS-style font stacks, e.g. "'Inter', sans-serif"
type Fonts struct {
	Header  string `yaml:"header,omitempty"`
	Body    string `yaml:"body,omitempty"`
	Numbers string `yaml:"numbers,omitempty"`
}

// Layout dimensions in pixels, e.g. "120px"
type Layout struct {
	HeaderHeight string `yaml:"header_height,omitempty" validate:"omitempty,endswith=px"`
	Margins      string `yaml:"margins,omitempty" validate:"omitempty,endswith=px"`
	BorderRadius string `yaml:"border_radius,omitempty" validate:"omitempty,endswith=px"`
}

// Theme is a named presentation preset
type Theme struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Colors Colors `yaml:"colors"`
	Fonts  Fonts  `yaml:"fonts"`
	Layout Layout `yaml:"layout"`
}

// Built-in theme ids in display order
var order = []string{"default", "modern", "classic", "corporate", "elegant", "minimal", "creative"}

var builtin = map[string]Theme{
	"default": {
		ID:   "default",
		Name: "Default",
		Colors: Colors{
			Primary: "#2563eb", Secondary: "#0f172a", Accent: "#22c55e",
			Text: "#020617", Background: "#ffffff", Border: "#e2e8f0", HeaderBg: "#f8fafc",
		},
		Fonts:  Fonts{Header: "'Inter', sans-serif", Body: "'Inter', sans-serif", Numbers: "'Inter', sans-serif"},
		Layout: Layout{HeaderHeight: "120px", Margins: "24px", BorderRadius: "8px"},
	},
	"modern": {
		ID:   "modern",
		Name: "Modern",
		Colors: Colors{
			Primary: "#6366f1", Secondary: "#1e1b4b", Accent: "#f59e0b",
			Text: "#111827", Background: "#ffffff", Border: "#e5e7eb", HeaderBg: "#f9fafb",
		},
		Fonts:  Fonts{Header: "'Poppins', sans-serif", Body: "'Inter', sans-serif", Numbers: "'JetBrains Mono', monospace"},
		Layout: Layout{HeaderHeight: "140px", Margins: "32px", BorderRadius: "12px"},
	},
	"classic": {
		ID:   "classic",
		Name: "Classic",
		Colors: Colors{
			Primary: "#059669", Secondary: "#064e3b", Accent: "#dc2626",
			Text: "#1f2937", Background: "#ffffff", Border: "#d1d5db", HeaderBg: "#f3f4f6",
		},
		Fonts:  Fonts{Header: "'Times New Roman', serif", Body: "'Georgia', serif", Numbers: "'Times New Roman', serif"},
		Layout: Layout{HeaderHeight: "100px", Margins: "20px", BorderRadius: "4px"},
	},
	"corporate": {
		ID:   "corporate",
		Name: "Corporate",
		Colors: Colors{
			Primary: "#1f2937", Secondary: "#111827", Accent: "#3b82f6",
			Text: "#374151", Background: "#ffffff", Border: "#d1d5db", HeaderBg: "#f9fafb",
		},
		Fonts:  Fonts{Header: "'Roboto', sans-serif", Body: "'Roboto', sans-serif", Numbers: "'Roboto Mono', monospace"},
		Layout: Layout{HeaderHeight: "110px", Margins: "28px", BorderRadius: "6px"},
	},
	"elegant": {
		ID:   "elegant",
		Name: "Elegant",
		Colors: Colors{
			Primary: "#7c3aed", Secondary: "#581c87", Accent: "#f97316",
			Text: "#1f2937", Background: "#ffffff", Border: "#e5e7eb", HeaderBg: "#faf5ff",
		},
		Fonts:  Fonts{Header: "'Playfair Display', serif", Body: "'Source Sans Pro', sans-serif", Numbers: "'Source Sans Pro', sans-serif"},
		Layout: Layout{HeaderHeight: "130px", Margins: "30px", BorderRadius: "10px"},
	},
	"minimal": {
		ID:   "minimal",
		Name: "Minimal",
		Colors: Colors{
			Primary: "#000000", Secondary: "#374151", Accent: "#6b7280",
			Text: "#111827", Background: "#ffffff", Border: "#e5e7eb", HeaderBg: "#ffffff",
		},
		Fonts:  Fonts{Header: "'Helvetica Neue', sans-serif", Body: "'Helvetica Neue', sans-serif", Numbers: "'SF Mono', monospace"},
		Layout: Layout{HeaderHeight: "90px", Margins: "24px", BorderRadius: "0px"},
	},
	"creative": {
		ID:   "creative",
		Name: "Creative",
		Colors: Colors{
			Primary: "#ec4899", Secondary: "#be185d", Accent: "#06b6d4",
			Text: "#1f2937", Background: "#ffffff", Border: "#f3e8ff", HeaderBg: "#fdf2f8",
		},
		Fonts:  Fonts{Header: "'Montserrat', sans-serif", Body: "'Open Sans', sans-serif", Numbers: "'Fira Code', monospace"},
		Layout: Layout{HeaderHeight: "150px", Margins: "36px", BorderRadius: "16px"},
	},
}

// Font stacks offered for customization, by family
var availableFonts = map[string][]string{
	"sans-serif": {
		"'Inter', sans-serif",
		"'Roboto', sans-serif",
		"'Open Sans', sans-serif",
		"'Source Sans Pro', sans-serif",
		"'Poppins', sans-serif",
		"'Montserrat', sans-serif",
		"'Helvetica Neue', sans-serif",
	},
	"serif": {
		"'Times New Roman', serif",
		"'Georgia', serif",
		"'Playfair Display', serif",
		"'Merriweather', serif",
		"'Crimson Text', serif",
	},
	"monospace": {
		"'JetBrains Mono', monospace",
		"'Fira Code', monospace",
		"'SF Mono', monospace",
		"'Roboto Mono', monospace",
		"'Source Code Pro', monospace",
	},
}
