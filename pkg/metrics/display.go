package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	thousand = 1e3
	million  = 1e6
	billion  = 1e9
)

// DisplayKind tells the renderer how a cell was produced.
type DisplayKind int

const (
	DisplayNumber DisplayKind = iota
	DisplayMoney
	DisplayRaw
	DisplayPercent
)

// Display is a rendered metric value. Raw keeps the unformatted value so a
// renderer can reveal it on inspection.
type Display struct {
	Text string
	Raw  string
	Kind DisplayKind
}

func (d Display) String() string { return d.Text }

// Money is a revenue value as served by the API, already formatted in short
// and long forms.
type Money struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// Formatter renders values for one locale and currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter returns a formatter for the given locale and currency.
func NewFormatter(tag language.Tag, unit currency.Unit) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}
}

var defaultFormatter = NewFormatter(language.BrazilianPortuguese, currency.BRL)

// SetLocale configures the default formatter from a BCP 47 tag and an ISO
// 4217 currency code. Unknown values keep the current setting.
func SetLocale(tag, code string) error {
	lang, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", tag, err)
	}
	unit := defaultFormatter.unit
	if code != "" {
		unit, err = currency.ParseISO(code)
		if err != nil {
			return fmt.Errorf("parse currency %q: %w", code, err)
		}
	}
	defaultFormatter = NewFormatter(lang, unit)
	return nil
}

// DisplayValue renders value for metric m with the default formatter.
func DisplayValue(value any, m Metric) Display {
	return defaultFormatter.DisplayValue(value, m)
}

// DisplayValue renders value for metric m.
func (f *Formatter) DisplayValue(value any, m Metric) Display {
	raw := rawString(value)
	switch {
	case m.IsRevenue():
		return f.money(value)
	case m.Is(Percentage):
		return Display{Text: raw, Raw: raw, Kind: DisplayRaw}
	case m.Is(ConversionRate):
		return Display{Text: raw + "%", Raw: raw, Kind: DisplayPercent}
	default:
		return Display{Text: f.Number(value), Raw: raw, Kind: DisplayNumber}
	}
}

// Number renders a count in compact form: 999, 1k, 1.2k, 3.4M, 1B.
// Non-numeric values are returned unchanged.
func (f *Formatter) Number(value any) string {
	n, ok := toFloat(value)
	if !ok {
		return rawString(value)
	}
	switch {
	case n >= billion:
		return f.scaled(n/billion, "B")
	case n >= million:
		return f.scaled(n/million, "M")
	case n >= thousand:
		return f.scaled(n/thousand, "k")
	default:
		return f.plain(n)
	}
}

func (f *Formatter) scaled(x float64, suffix string) string {
	if x == math.Floor(x) {
		return f.printer.Sprintf("%d", int64(x)) + suffix
	}
	return f.printer.Sprintf("%.1f", math.Floor(x*10)/10) + suffix
}

func (f *Formatter) plain(n float64) string {
	if n == math.Trunc(n) {
		return f.printer.Sprintf("%d", int64(n))
	}
	return f.printer.Sprint(n)
}

func (f *Formatter) money(value any) Display {
	switch v := value.(type) {
	case Money:
		return Display{Text: v.Short, Raw: v.Long, Kind: DisplayMoney}
	case *Money:
		if v == nil {
			return Display{Kind: DisplayMoney}
		}
		return Display{Text: v.Short, Raw: v.Long, Kind: DisplayMoney}
	case map[string]any:
		short, _ := v["short"].(string)
		long, _ := v["long"].(string)
		return Display{Text: short, Raw: long, Kind: DisplayMoney}
	}
	n, ok := toFloat(value)
	if !ok {
		raw := rawString(value)
		return Display{Text: raw, Raw: raw, Kind: DisplayMoney}
	}
	text := f.printer.Sprint(currency.Symbol(f.unit.Amount(n)))
	return Display{Text: text, Raw: rawString(value), Kind: DisplayMoney}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

func rawString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
