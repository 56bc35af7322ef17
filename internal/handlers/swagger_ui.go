package handlers

import (
	"html/template"
	"net/http"
)

// swaggerPage parameterizes the documentation page so the handler and
// the OpenAPI document cannot drift apart on the spec URL.
type swaggerPage struct {
	Title      string
	SpecURL    string
	AssetsBase string
}

var swaggerTmpl = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="{{.AssetsBase}}/swagger-ui.css">
    <style>
        html { box-sizing: border-box; overflow: -moz-scrollbars-vertical; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; padding:0; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="{{.AssetsBase}}/swagger-ui-bundle.js"></script>
    <script src="{{.AssetsBase}}/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout"
            });
            window.ui = ui;
        };
    </script>
</body>
</html>`))

// SwaggerUI serves the Swagger UI HTML page for the labor platform API
func SwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	swaggerTmpl.Execute(w, swaggerPage{
		Title:      "Labor Platform API Documentation",
		SpecURL:    OpenAPIDocPath,
		AssetsBase: "https://unpkg.com/swagger-ui-dist@5.10.0",
	})
}
