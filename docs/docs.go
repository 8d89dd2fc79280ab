// Package docs serves the API description through Swagger UI.
package docs

import (
	_ "embed"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed swagger.json
var swaggerJSON []byte

// DocPath is where the raw API description is served
const DocPath = "/swagger/doc.json"

// SwaggerJSON returns the embedded API description
func SwaggerJSON() []byte {
	return swaggerJSON
}

// Handler serves the UI under /swagger/ and the embedded description at DocPath
func Handler() http.Handler {
	ui := httpSwagger.Handler(httpSwagger.URL(DocPath))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/doc.json") {
			w.Header().Set("Content-Type", "application/json")
			w.Write(swaggerJSON)
			return
		}
		ui.ServeHTTP(w, r)
	})
}
