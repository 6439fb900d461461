package main

import (
	"fmt"
	"strings"

	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/zdoom"
)

// A diagnosticReport is a diagnostic resolved against the source it was produced from.
type diagnosticReport struct {
	Position parse.Position `json:"position" yaml:"position"`
	Span     parse.Span     `json:"span" yaml:"span"`
	Found    string         `json:"found" yaml:"found"`
	Text     string         `json:"text" yaml:"text"`
	Expected []string       `json:"expected" yaml:"expected"`
}

func newDiagnosticReport(source string, diagnostic parse.Diagnostic[zdoom.Token]) diagnosticReport {
	span := diagnostic.Found.Span

	return diagnosticReport{
		Position: parse.LineColumn(source, span.Start),
		Span:     span,
		Found:    diagnostic.Found.Kind.String(),
		Text:     source[span.Start:span.End],
		Expected: diagnostic.Expected.Flatten(),
	}
}

func newDiagnosticReports(source string, diagnostics []parse.Diagnostic[zdoom.Token]) []diagnosticReport {
	reports := make([]diagnosticReport, 0, len(diagnostics))
	for _, diagnostic := range diagnostics {
		reports = append(reports, newDiagnosticReport(source, diagnostic))
	}
	return reports
}

func (r diagnosticReport) location(path string) string {
	if path == "" {
		return r.Position.String()
	}
	return path + ":" + r.Position.String()
}

func (r diagnosticReport) message() string {
	var found string
	switch {
	case r.Span.Len() == 0:
		found = "unexpected end of input"
	case strings.HasPrefix(r.Found, "`"): //keywords and glyphs
		found = "unexpected " + r.Found
	default:
		found = fmt.Sprintf("unexpected %s `%s`", r.Found, r.Text)
	}

	switch len(r.Expected) {
	case 0:
		return found
	case 1:
		return found + ", expected " + r.Expected[0]
	default:
		last := len(r.Expected) - 1
		return found + ", expected " + strings.Join(r.Expected[:last], ", ") + " or " + r.Expected[last]
	}
}
