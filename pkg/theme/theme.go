// Package theme holds the yaml-configurable colors and title of the
// terminal report.
package theme

// Theme holds all visual styling for the Pages report.
type Theme struct {
	Colors Colors            `yaml:"colors"`
	Title  Title             `yaml:"title"`
	Bars   map[string]string `yaml:"bars,omitempty"` // bar palette name -> color
}

// Colors defines the color palette.
type Colors struct {
	Primary string `yaml:"primary"` // title bar, box border
	Active  string `yaml:"active"`  // active pill
	Hover   string `yaml:"hover"`   // selected row
	Muted   string `yaml:"muted"`   // inactive pills, help, column headers
	Text    string `yaml:"text"`    // row keys
	Value   string `yaml:"value"`   // metric cells
	Border  string `yaml:"border"`
	Error   string `yaml:"error"`
	BarText string `yaml:"bar_text"` // text drawn over a bar
}

// Title defines the title bar.
type Title struct {
	Text string `yaml:"text"`
	Icon string `yaml:"icon"`
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		Colors: Colors{
			Primary: "#7D56F4", // Purple
			Active:  "#4338CA", // Indigo
			Hover:   "#4F46E5", // Indigo, lighter
			Muted:   "#626262", // Gray
			Text:    "#CCCCCC", // Light gray
			Value:   "#FAFAFA", // White
			Border:  "#444444", // Dark gray
			Error:   "#FF5F56", // Red
			BarText: "#1F1F1F", // Near black
		},
		Title: Title{
			Text: "statsdash",
			Icon: "▤", // ▤
		},
		Bars: map[string]string{
			"bg-orange-50": "#FED7AA",
			"bg-blue-50":   "#BFDBFE",
			"bg-green-50":  "#BBF7D0",
			"bg-red-50":    "#FECACA",
		},
	}
}

// MergeWithDefaults fills unset fields of t from Default. A nil t
// yields the default theme.
func MergeWithDefaults(t *Theme) *Theme {
	def := Default()
	if t == nil {
		return def
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&t.Colors.Primary, def.Colors.Primary)
	fill(&t.Colors.Active, def.Colors.Active)
	fill(&t.Colors.Hover, def.Colors.Hover)
	fill(&t.Colors.Muted, def.Colors.Muted)
	fill(&t.Colors.Text, def.Colors.Text)
	fill(&t.Colors.Value, def.Colors.Value)
	fill(&t.Colors.Border, def.Colors.Border)
	fill(&t.Colors.Error, def.Colors.Error)
	fill(&t.Colors.BarText, def.Colors.BarText)
	fill(&t.Title.Text, def.Title.Text)
	fill(&t.Title.Icon, def.Title.Icon)

	if t.Bars == nil {
		t.Bars = map[string]string{}
	}
	for name, color := range def.Bars {
		if _, ok := t.Bars[name]; !ok {
			t.Bars[name] = color
		}
	}
	return t
}
