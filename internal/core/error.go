package core

import (
	"html/template"
)

type ErrorData struct {
	Status  int
	Title   string
	Message string
	IsDev   bool
}

var ErrorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: "Inter var", system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; color: #21182e; }
        h1 { color: #8260b8; }
        pre { background: #ede4fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>{{.Status}} {{.Title}}</h1>
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else if eq .Status 404}}
    <p>There is nothing at this address.</p>
    {{else}}
    <p>An error occurred while processing your request.</p>
    {{end}}
</body>
</html>`))
