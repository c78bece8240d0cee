// Package docs embute o documento OpenAPI servido pela UI do Swagger.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed swagger.json
var openapi []byte

// ServeOpenAPI entrega o documento para a UI em /swagger/.
func ServeOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openapi)
}
