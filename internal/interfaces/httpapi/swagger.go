package httpapi

import (
	_ "embed"
	"fmt"
	"html"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// openAPIDocument is the slice of the embedded spec the docs page and the
// route contract test read.
type openAPIDocument struct {
	Info struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths map[string]map[string]any `yaml:"paths"`
}

func parseOpenAPI(doc []byte) (openAPIDocument, error) {
	var out openAPIDocument
	if err := yaml.Unmarshal(doc, &out); err != nil {
		return openAPIDocument{}, fmt.Errorf("parse openapi document: %w", err)
	}
	return out, nil
}

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r.Context(), "httpapi.Handler.OpenAPI")
	defer span.End()

	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(openAPISpec)
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r.Context(), "httpapi.Handler.SwaggerUI")
	defer span.End()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, swaggerPage, html.EscapeString(docsTitle(openAPISpec)))
}

// docsTitle names the page after the embedded spec, e.g. "FC24 Predictor API 1.0".
func docsTitle(doc []byte) string {
	parsed, err := parseOpenAPI(doc)
	if err != nil || parsed.Info.Title == "" {
		return "API Docs"
	}
	if parsed.Info.Version == "" {
		return parsed.Info.Title
	}
	return parsed.Info.Title + " " + parsed.Info.Version
}

const swaggerPage = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>%s</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
        presets: [SwaggerUIBundle.presets.apis],
      });
    </script>
  </body>
</html>`
