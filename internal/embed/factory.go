package embed

import "fmt"

// Config configures provider construction.
type Config struct {
	Backend  string // "local", "api", "mock"
	Endpoint string // for "local": http://127.0.0.1:<port>; for "api": the remote base URL
	APIKey   string // for "api"
	Model    string
	Dim      int
}

// NewProvider builds a Provider for the configured backend.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Backend {
	case "local", "":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = "http://127.0.0.1:8121"
		}
		return newLocalProvider(endpoint, cfg.Dim), nil

	case "api":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("embedding backend %q requires an endpoint", cfg.Backend)
		}
		return newAPIProvider(cfg.Endpoint, cfg.APIKey, cfg.Dim), nil

	case "mock":
		return newMockProvider(cfg.Dim), nil

	default:
		return nil, fmt.Errorf("unsupported embedding backend: %s (supported: local, api, mock)", cfg.Backend)
	}
}
