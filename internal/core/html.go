package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

const DefaultAnchorID = "app"

type ShellData struct {
	Title       string
	Lang        string
	AnchorID    string
	Stylesheets []string
}

const defaultShell = `<!doctype html>
<html lang="{{.Lang}}">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}}</title>
{{- range .Stylesheets}}
    <link rel="stylesheet" href="{{.}}" />
{{- end}}
  </head>
  <body>
    <div id="{{.AnchorID}}"></div>
  </body>
</html>
`

// RenderShell executes the host page template. An empty src falls back to a
// minimal document that only carries the anchor element.
func RenderShell(src string, data ShellData) ([]byte, error) {
	if strings.TrimSpace(src) == "" {
		src = defaultShell
	}
	if data.Title == "" {
		data.Title = "Gacha"
	}
	if data.Lang == "" {
		data.Lang = "en"
	}
	if data.AnchorID == "" {
		data.AnchorID = DefaultAnchorID
	}

	tmpl, err := template.New("shell").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse shell: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render shell: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeState serializes hydration state so it is safe inside a script tag.
func EncodeState(state any) (string, error) {
	if state == nil {
		state = map[string]any{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "</", "<\\/"), nil
}
