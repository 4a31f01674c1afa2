package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

var HTML = template.Must(template.New("html").Funcs(template.FuncMap{
	"nodeClass": nodeClass,
}).Parse(`
{{- define "node" -}}
<div class="tree-node"><div class="{{nodeClass .}}">{{.Value}}</div>
{{- if or .Left .Right -}}
<div class="node-children"><div class="child-branch left-branch">{{with .Left}}{{template "node" .}}{{end}}</div><div class="child-branch right-branch">{{with .Right}}{{template "node" .}}{{end}}</div></div>
{{- end -}}
</div>
{{- end -}}

{{- define "view" -}}
{{- if .Root -}}
<div class="tree-container">{{template "node" .Root}}</div>
{{- else -}}
{{.Placeholder}}
{{- end -}}
{{- end -}}

{{- define "list" -}}
{{- if .Handles -}}
{{- range .Handles -}}
<div class="tree-item{{if eq .ID $.Selected}} selected{{end}}" data-id="{{.ID}}">{{.String}}</div>
{{- end -}}
{{- else -}}
` + NoTrees + `
{{- end -}}
{{- end -}}

{{- define "banner" -}}
<div class="search-result {{if .Found}}search-found{{else}}search-not-found{{end}}">{{.Text}}</div>
{{- end -}}
`))

func nodeClass(n *snapshot.VisualNode) string {
	classes := []string{"node-value"}
	switch n.Color {
	case snapshot.ColorRed:
		classes = append(classes, "red-node")
	case snapshot.ColorBlack:
		classes = append(classes, "black-node")
	}
	if n.Highlighted {
		classes = append(classes, "highlight")
	}
	return strings.Join(classes, " ")
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := HTML.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "while rendering %s", name)
	}
	return buf.String(), nil
}

// ViewHTML renders the visualization panel contents.
func ViewHTML(v View) (string, error) {
	return execute("view", v)
}

// ListHTML renders the tree list panel, marking the selected handle.
func ListHTML(handles []api.TreeHandle, selected string) (string, error) {
	return execute("list", struct {
		Handles  []api.TreeHandle
		Selected string
	}{handles, selected})
}

// BannerHTML renders a search result banner.
func BannerHTML(found bool, text string) (string, error) {
	return execute("banner", struct {
		Found bool
		Text  string
	}{found, text})
}
