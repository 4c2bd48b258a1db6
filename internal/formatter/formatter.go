package formatter

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/kyleking/supplier-api/internal/routing"
	"github.com/kyleking/supplier-api/internal/storage"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatLong  OutputFormat = "long"
	FormatShort OutputFormat = "short"
)

// Formatter renders the endpoint table and database summaries for the CLI
// and the API documentation page.
type Formatter struct{}

// NewFormatter creates a new formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// ParseFormat accepts "long" or "short"
func ParseFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(raw)) {
	case FormatLong:
		return FormatLong, nil
	case FormatShort, "":
		return FormatShort, nil
	}

	return "", fmt.Errorf("unknown format %q (want long or short)", raw)
}

// FormatEndpoints renders one endpoint per line. The long form adds the
// operation name and description.
func (f *Formatter) FormatEndpoints(endpoints []routing.Endpoint, format OutputFormat) string {
	methodWidth, patternWidth := 0, 0
	for _, e := range endpoints {
		methodWidth = max(methodWidth, len(e.Method))
		patternWidth = max(patternWidth, len(e.Pattern))
	}

	lines := make([]string, 0, len(endpoints))

	for _, e := range endpoints {
		switch format {
		case FormatLong:
			lines = append(lines, fmt.Sprintf("%-*s  %-*s  %s\n%*s  %s",
				methodWidth, e.Method, patternWidth, e.Pattern, e.Kind,
				methodWidth, "", e.Description))
		default:
			lines = append(lines, fmt.Sprintf("%-*s  %s", methodWidth, e.Method, e.Pattern))
		}
	}

	return strings.Join(lines, "\n")
}

// EndpointsHTML renders the documentation page served at /api
func (f *Formatter) EndpointsHTML(endpoints []routing.Endpoint) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Supplier API</title></head>\n<body>\n")
	b.WriteString("<h1>Supplier API</h1>\n")
	b.WriteString("<p>Path segments shown as <code>{}</code> take an id or a percent-encoded name.</p>\n")
	b.WriteString("<table>\n<tr><th>Method</th><th>Path</th><th>Operation</th><th>Description</th></tr>\n")

	for _, e := range endpoints {
		fmt.Fprintf(&b, "<tr><td>%s</td><td><code>%s</code></td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(e.Method),
			html.EscapeString(e.Pattern),
			html.EscapeString(e.Kind.String()),
			html.EscapeString(e.Description))
	}

	b.WriteString("</table>\n</body>\n</html>\n")

	return b.String()
}

// FormatMigrationStatus renders one migration per line
func (f *Formatter) FormatMigrationStatus(status []storage.MigrationStatus) string {
	lines := make([]string, 0, len(status))

	for _, s := range status {
		state := "pending"
		if s.Applied {
			state = "applied " + s.AppliedAt
		}

		lines = append(lines, fmt.Sprintf("%3d  %-40s  %s", s.Version, s.Description, state))
	}

	return strings.Join(lines, "\n")
}

// FormatStats renders table row counts sorted by table name
func (f *Formatter) FormatStats(counts map[string]int64) string {
	names := make([]string, 0, len(counts))
	width := 0

	for name := range counts {
		names = append(names, name)
		width = max(width, len(name))
	}

	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, name, f.formatInt(counts[name])))
	}

	return strings.Join(lines, "\n")
}

// formatInt formats a count with thousands separators, returning "?" for
// negative values (unknown)
func (f *Formatter) formatInt(value int64) string {
	if value < 0 {
		return "?"
	}

	digits := strconv.FormatInt(value, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
