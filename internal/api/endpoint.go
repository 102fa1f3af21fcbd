package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint is one API operation exposed both as an HTTP route and as a
// CLI command that calls that route. Implementations live in
// internal/server/endpoints; the server mounts Route and the api command
// tree mounts Command, so the two surfaces cannot drift apart.
type Endpoint interface {
	// Route returns the HTTP method, path pattern, and handler.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit reports whether the handler needs the provider
	// registry and search client before it can serve requests.
	RequiresInit() bool

	// Command builds the cobra command for this endpoint. getServerURL
	// is deferred so the --server flag is read at run time.
	Command(getServerURL func() string) *cobra.Command
}
