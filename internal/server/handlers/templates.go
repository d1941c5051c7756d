package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/insightsite/internal/article"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names; each page template defines "content" and is executed through
// the shared "layout".
const (
	pageHome        = "home"
	pageInsights    = "insights"
	pageInsight     = "insight"
	pageAbout       = "about"
	pageCollaborate = "collaborate"
	pageError       = "error"
)

var pageNames = []string{pageHome, pageInsights, pageInsight, pageAbout, pageCollaborate, pageError}

var templateFuncs = template.FuncMap{
	"label":       label,
	"displayDate": displayDate,
}

// label turns an identifier such as "future" into a display label.
func label(s string) string {
	if s == string(article.ViewDefault) {
		return "All"
	}
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.English).String(s)
}

// displayDate formats a document date for readers. Unparseable values are
// shown as written.
func displayDate(s string) string {
	t, ok := article.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("January 2, 2006")
}

// pageSet holds one parsed template per page, each sharing the layout.
type pageSet map[string]*template.Template

func parsePages() (pageSet, error) {
	pages := make(pageSet, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (p pageSet) execute(name string, data any) ([]byte, error) {
	t, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func currentYear() int { return time.Now().Year() }
