package postnl

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// The provider embeds timestamps in status texts as typed placeholders,
// e.g. "Expected {Date:2024-03-01T09:00:00+01:00} between {Time:...} and {Time:...}".
var (
	statusParamRe       = regexp.MustCompile(`\{(\w+):([^}]+)\}`)
	statusPlaceholderRe = regexp.MustCompile(`\{[^}]+\}`)
)

// FormattedStatus is a human-readable status text with localized timestamp
// parameters. The raw template is kept so callers can apply their own
// formatting; Short and Body render with default formatting.
type FormattedStatus struct {
	Title string

	bodyRaw     string
	bodyParams  []statusParam
	shortRaw    string
	shortParams []statusParam
}

type paramKind int

const (
	paramDate paramKind = iota
	paramTime
	paramDateTime
	paramDateAbs
)

type statusParam struct {
	kind paramKind
	at   time.Time
}

func (p statusParam) String() string {
	switch p.kind {
	case paramDate:
		return p.at.Format("2006-01-02")
	case paramTime:
		return p.at.Format("15:04")
	default:
		return p.at.Format(time.RFC3339)
	}
}

type rawFormattedStatus struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Short string `json:"short"`
}

// UnmarshalJSON decodes the templated status text and parses its parameters.
func (f *FormattedStatus) UnmarshalJSON(data []byte) error {
	var raw rawFormattedStatus
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	bodyParams, err := extractStatusParams(raw.Body)
	if err != nil {
		return err
	}
	shortParams, err := extractStatusParams(raw.Short)
	if err != nil {
		return err
	}

	f.Title = raw.Title
	f.bodyRaw = statusPlaceholderRe.ReplaceAllString(raw.Body, "{}")
	f.bodyParams = bodyParams
	f.shortRaw = statusPlaceholderRe.ReplaceAllString(raw.Short, "{}")
	f.shortParams = shortParams
	return nil
}

func extractStatusParams(raw string) ([]statusParam, error) {
	var params []statusParam

	for _, m := range statusParamRe.FindAllStringSubmatch(raw, -1) {
		kind := strings.ToLower(m[1])
		at, err := time.Parse(time.RFC3339, m[2])
		if err != nil {
			return nil, fmt.Errorf("invalid status timestamp %q: %w", m[2], err)
		}

		switch kind {
		case "date":
			params = append(params, statusParam{kind: paramDate, at: at})
		case "time":
			params = append(params, statusParam{kind: paramTime, at: at})
		case "datetime":
			params = append(params, statusParam{kind: paramDateTime, at: at})
		case "dateabs":
			params = append(params, statusParam{kind: paramDateAbs, at: at})
		default:
			return nil, fmt.Errorf("invalid status parameter type %q", kind)
		}
	}

	return params, nil
}

// Short renders the one-line status text.
func (f *FormattedStatus) Short() string {
	return renderStatus(f.shortRaw, f.shortParams)
}

// Body renders the full status text.
func (f *FormattedStatus) Body() string {
	return renderStatus(f.bodyRaw, f.bodyParams)
}

func renderStatus(format string, params []statusParam) string {
	out := format
	for _, p := range params {
		out = strings.Replace(out, "{}", p.String(), 1)
	}
	return out
}
