package config

// ServiceURLs contains URLs for the services the client talks to, based on environment.
type ServiceURLs struct {
	// APIBaseURL is the base URL of the Uppi REST API.
	APIBaseURL string
}

// GetServiceURLs returns environment-appropriate URLs.
// It reads the environment from the config and returns the corresponding URLs.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	urls := cfg.GetServiceURLs()
//	apiURL := urls.APIBaseURL
func (c *Config) GetServiceURLs() ServiceURLs {
	switch c.Environment.Environment {
	case Prod:
		return ServiceURLs{APIBaseURL: "https://uppi.dev/api"}
	case NonProd:
		return ServiceURLs{APIBaseURL: "https://staging.uppi.dev/api"}
	case Local:
		fallthrough
	default:
		return ServiceURLs{APIBaseURL: "http://localhost:8000/api"}
	}
}
