package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// trimWordLimit matches the admin listing's message preview length
const trimWordLimit = 20

// Templates parses the embedded pages. html/template's contextual escaping
// guarantees stored submission text is escaped before it reaches markup.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"trimWords": TrimWords,
	}).ParseFS(templateFS, "templates/*.html"))
}

// StaticFS returns the embedded static assets rooted at static/
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// TrimWords truncates s to the preview word limit, appending an ellipsis
// when anything was cut
func TrimWords(s string) string {
	words := strings.Fields(s)
	if len(words) <= trimWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:trimWordLimit], " ") + "…"
}
