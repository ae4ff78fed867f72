package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

var (
	htmlOnce      sync.Once
	htmlTemplates *template.Template
	htmlErr       error
)

func loadHTMLTemplates() (*template.Template, error) {
	htmlOnce.Do(func() {
		htmlTemplates, htmlErr = template.New("resume").Funcs(template.FuncMap{
			"join": strings.Join,
		}).ParseFS(templateFiles, "templates/*.html")
	})
	return htmlTemplates, htmlErr
}

// RenderHTML executes the layout named by data.Template.
func RenderHTML(data *TemplateData) (string, error) {
	tmpls, err := loadHTMLTemplates()
	if err != nil {
		return "", &TemplateError{Template: data.Template, Message: "failed to parse templates", Cause: err}
	}

	name := string(data.Template) + ".html"
	tmpl := tmpls.Lookup(name)
	if tmpl == nil {
		return "", &TemplateError{Template: data.Template, Message: "no HTML layout " + name}
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{Template: data.Template, Message: "failed to execute " + name, Cause: err}
	}
	return result.String(), nil
}

// HasHTMLTemplate reports whether a layout has an HTML template.
func HasHTMLTemplate(t types.Template) bool {
	tmpls, err := loadHTMLTemplates()
	return err == nil && tmpls.Lookup(string(t)+".html") != nil
}
