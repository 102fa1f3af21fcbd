package endpoints

import (
	"sonomancer/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Book endpoints
		&UploadBookEndpoint{},
		&ListBooksEndpoint{},
		&ListChaptersEndpoint{},
		&GetChapterEndpoint{},

		// Ambience analysis
		&AmbienceEndpoint{},
	}
}
