package postnl

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The provider formats measurements as display strings with a comma decimal
// separator, e.g. "21 x 30 x 40,5 cm" or "300 gram".
var (
	dimensionsRe = regexp.MustCompile(`^(\d+(?:,\d+)?) x (\d+(?:,\d+)?) x (\d+(?:,\d+)?) (\w+)$`)
	weightRe     = regexp.MustCompile(`^(\d+(?:,\d+)?) (\w+)$`)
)

// Dimensions holds package dimensions in centimeters.
type Dimensions struct {
	Height float64
	Width  float64
	Depth  float64
}

// UnmarshalJSON parses a formatted dimensions string like "21 x 30 x 40,5 cm".
func (d *Dimensions) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDimensions(s)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// ParseDimensions parses a provider-formatted dimensions string.
// Supported units are "cm" and "m".
func ParseDimensions(s string) (*Dimensions, error) {
	m := dimensionsRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("malformed dimensions %q", s)
	}

	h, err := parseDecimal(m[1])
	if err != nil {
		return nil, err
	}
	w, err := parseDecimal(m[2])
	if err != nil {
		return nil, err
	}
	depth, err := parseDecimal(m[3])
	if err != nil {
		return nil, err
	}

	switch m[4] {
	case "cm":
		return &Dimensions{Height: h, Width: w, Depth: depth}, nil
	case "m":
		return &Dimensions{Height: h * 100, Width: w * 100, Depth: depth * 100}, nil
	default:
		return nil, fmt.Errorf("unsupported dimension unit %q", m[4])
	}
}

// String formats the dimensions as "H x W x D cm".
func (d Dimensions) String() string {
	return fmt.Sprintf("%g x %g x %g cm", d.Height, d.Width, d.Depth)
}

// Weight is a package weight in grams.
type Weight float64

// UnmarshalJSON parses a formatted weight string like "3 kg" or "300 gram".
func (w *Weight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWeight(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseWeight parses a provider-formatted weight string.
// Supported units are "gram" and "kg".
func ParseWeight(s string) (Weight, error) {
	m := weightRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("malformed weight %q", s)
	}

	value, err := parseDecimal(m[1])
	if err != nil {
		return 0, err
	}

	switch m[2] {
	case "gram":
		return Weight(value), nil
	case "kg":
		return Weight(value * 1000), nil
	default:
		return 0, fmt.Errorf("unsupported weight unit %q", m[2])
	}
}

// Grams returns the weight in grams.
func (w Weight) Grams() float64 {
	return float64(w)
}

// Kilograms returns the weight in kilograms.
func (w Weight) Kilograms() float64 {
	return float64(w) / 1000
}

// parseDecimal parses a number that uses a comma as decimal separator.
func parseDecimal(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}
	return v, nil
}
