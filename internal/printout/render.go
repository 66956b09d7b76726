package printout

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*
var templateFS embed.FS

var funcs = map[string]any{
	"money":   Money,
	"percent": Percent,
	"date":    func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"nonzero": func(d decimal.Decimal) bool { return !d.IsZero() },
}

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("quote.html").Funcs(htmltemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/quote.html"))
	textTmpl = template.Must(template.New("quote.txt").Funcs(template.FuncMap(funcs)).ParseFS(templateFS, "templates/quote.txt"))
)

// RenderHTML writes doc as a standalone printable HTML page.
func RenderHTML(w io.Writer, doc Document) error {
	if err := htmlTmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("render quote html: %w", err)
	}
	return nil
}

// RenderText writes doc as plain text.
func RenderText(w io.Writer, doc Document) error {
	if err := textTmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("render quote text: %w", err)
	}
	return nil
}
