package report

import (
	"fmt"
	"io"
	"strings"
)

// Format is an output format of Render.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
)

// Formats lists the formats Render accepts.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatHTML, FormatXLSX}

// ParseFormat accepts a format name in any case; "md" is short for markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		f = FormatMarkdown
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ContentType is the HTTP content type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Ext is the file extension for f, with the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// Render writes d in format f. opts only applies to FormatText.
func (d *Document) Render(w io.Writer, f Format, opts TextOptions) error {
	switch f {
	case FormatText:
		return d.WriteText(w, opts)
	case FormatJSON:
		return d.WriteJSON(w)
	case FormatMarkdown:
		return d.WriteMarkdown(w)
	case FormatHTML:
		return d.WriteHTML(w)
	case FormatXLSX:
		return d.WriteXLSX(w)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}
