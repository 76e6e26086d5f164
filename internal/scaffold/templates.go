package scaffold

// Built-in workspace templates. Each is a YAML document: a name, a short
// description, and the files to generate. Paths and contents are
// text/template strings rendered with the phase data.

var builtinTemplates = map[string]string{
	"default": defaultTemplate,
	"go":      goTemplate,
	"web":     webTemplate,
}

const defaultTemplate = `name: default
description: Plain phase workspace with notes and progress tracking
files:
  - path: README.md
    content: |
      # Phase {{.Phase.Number}}: {{.Phase.Title}}

      Part of: {{.Curriculum}}

      {{.Phase.Description}}

      ## Objectives
      {{range .Objectives}}
      - [ ] {{.}}{{end}}

      ## Deliverables
      {{range .Deliverables}}
      - [ ] {{.}}{{end}}
  - path: NOTES.md
    content: |
      # Notes — Phase {{.Phase.Number}}

      Key concepts to cover:
      {{range .KeyConcepts}}
      - {{.}}{{end}}
`

const goTemplate = `name: go
description: Go project workspace for a coding phase
files:
  - path: README.md
    content: |
      # Phase {{.Phase.Number}}: {{.Phase.Title}}

      {{.Phase.Description}}

      ## Deliverables
      {{range .Deliverables}}
      - [ ] {{.}}{{end}}

      Run tests with ` + "`go test ./...`" + `.
  - path: go.mod
    content: |
      module phase{{.Phase.Number}}

      go 1.25
  - path: main.go
    content: |
      package main

      import "fmt"

      func main() {
      	fmt.Println("phase {{.Phase.Number}}: {{.Phase.Title}}")
      }
  - path: main_test.go
    content: |
      package main

      import "testing"

      func TestPlaceholder(t *testing.T) {
      	t.Skip("replace with phase exercises")
      }
`

const webTemplate = `name: web
description: Static web workspace for a frontend phase
files:
  - path: README.md
    content: |
      # Phase {{.Phase.Number}}: {{.Phase.Title}}

      {{.Phase.Description}}

      Open index.html in a browser to get started.
  - path: index.html
    content: |
      <!doctype html>
      <html lang="en">
        <head>
          <meta charset="utf-8" />
          <title>Phase {{.Phase.Number}}: {{.Phase.Title}}</title>
          <link rel="stylesheet" href="style.css" />
        </head>
        <body>
          <h1>{{.Phase.Title}}</h1>
          <script src="app.js"></script>
        </body>
      </html>
  - path: style.css
    content: |
      body {
        font-family: system-ui, sans-serif;
        margin: 2rem auto;
        max-width: 60ch;
      }
  - path: app.js
    content: |
      console.log("phase {{.Phase.Number}}: {{.Phase.Title}}");
`
