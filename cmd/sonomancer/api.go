package main

import (
	"github.com/spf13/cobra"

	"sonomancer/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Sonomancer server via HTTP.

These commands require a running server (sonomancer serve).
Use --server to specify a custom server URL.

Examples:
  sonomancer api health                       # Check server health
  sonomancer api books list                   # List uploaded books
  sonomancer api books upload book.epub       # Upload an EPUB or PDF
  sonomancer api books ambience <id> 0        # Find a soundscape for chapter 0`,
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Book and chapter commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Books as subcommand group
	booksCmd.AddCommand((&endpoints.UploadBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.ListBooksEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.ListChaptersEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.GetChapterEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.AmbienceEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(apiCmd)
}
