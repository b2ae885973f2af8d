package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/mbeckert/heatpump-monitor/internal/errorlist"
)

// Fixed German text; the operator's mail filters match on these strings.
const (
	newErrorsIntro   = "Neue Meldungen in der Meldungsliste:"
	fetchFailureSubj = "Wärmepumpe: Meldungsliste konnte nicht abgerufen werden"
)

// Subject returns the subject line for count new entries, with German
// singular/plural handling.
func Subject(count int) string {
	if count == 1 {
		return "Wärmepumpe: 1 neue Meldung"
	}
	return fmt.Sprintf("Wärmepumpe: %d neue Meldungen", count)
}

// FetchFailureSubject is the subject line of the failure report.
func FetchFailureSubject() string {
	return fetchFailureSubj
}

// RenderPlain produces the text alternative: a fixed-width table with one
// line per record. Pure function of its input.
func RenderPlain(records []errorlist.Record) string {
	header := fmt.Sprintf("%-6s  %-12s  %-4s  %-12s  %s", "Nr.", "Fehlernr.", "WP", "Datum", "Uhrzeit")

	var b strings.Builder
	b.WriteString(newErrorsIntro)
	b.WriteString("\n\n")
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(header)))
	b.WriteByte('\n')
	for _, r := range records {
		fmt.Fprintf(&b, "%-6s  %-12s  %-4s  %-12s  %s\n", r.Number, r.Code, r.HeatPump, r.Date, r.Time)
	}
	return b.String()
}

var newErrorsHTML = template.Must(template.New("new_errors").Parse(`<html><body>
<p>Neue Meldungen in der Meldungsliste:</p>
<table border="1" cellpadding="5" cellspacing="0" style="border-collapse:collapse">
<tr style="background:#eee"><th>Nr.</th><th>Fehlernummer</th><th>WP</th><th>Datum</th><th>Uhrzeit</th></tr>
{{range .}}<tr><td>{{.Number}}</td><td>{{.Code}}</td><td>{{.HeatPump}}</td><td>{{.Date}}</td><td>{{.Time}}</td></tr>
{{end}}</table>
</body></html>
`))

// RenderHTML produces the HTML alternative: one header row plus one row per
// record. Cell values are HTML-escaped by the template engine.
func RenderHTML(records []errorlist.Record) (string, error) {
	var b strings.Builder
	if err := newErrorsHTML.Execute(&b, records); err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return b.String(), nil
}

// RenderFailurePlain produces the text alternative of the failure report,
// embedding the underlying error verbatim.
func RenderFailurePlain(cause error) string {
	return "Fehler beim Abrufen der Meldungsliste:\n\n" + cause.Error() + "\n"
}

var fetchFailureHTML = template.Must(template.New("fetch_failure").Parse(`<html><body>
<p><strong>Fehler beim Abrufen der Meldungsliste:</strong></p>
<pre>{{.}}</pre>
</body></html>
`))

// RenderFailureHTML produces the HTML alternative of the failure report.
func RenderFailureHTML(cause error) (string, error) {
	var b strings.Builder
	if err := fetchFailureHTML.Execute(&b, cause.Error()); err != nil {
		return "", fmt.Errorf("render failure html body: %w", err)
	}
	return b.String(), nil
}
