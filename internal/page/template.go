// Package page renders the server-side landing page and handles its plain
// form posts.
package page

import (
	"html/template"
	"strings"

	regHttp "github.com/nekogravitycat/signup-site/internal/registration/http"
	"github.com/nekogravitycat/signup-site/web"
)

// TextField is the data of one text input of the form.
type TextField struct {
	Name  string
	Type  string
	Label string
	Value string
	Error string
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"field":   newTextField,
		"preview": previewURL,
	}).ParseFS(web.TemplatesFS, "templates/*.html")
}

func newTextField(form regHttp.FormResponse, name, typ, label, value string) TextField {
	return TextField{
		Name:  name,
		Type:  typ,
		Label: label,
		Value: value,
		Error: form.Errors[name],
	}
}

// previewURL marks a generated JPEG data URI as safe for a src attribute.
func previewURL(uri string) template.URL {
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		return ""
	}
	return template.URL(uri)
}
