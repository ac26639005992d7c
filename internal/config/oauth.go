package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// OAuthClientConfig is the client secret file downloaded from the Google
// cloud console. Desktop clients carry an "installed" section, web clients a
// "web" section; exactly one must be present.
type OAuthClientConfig struct {
	Installed *OAuthClient `json:"installed,omitempty"`
	Web       *OAuthClient `json:"web,omitempty"`
}

// OAuthClient holds the credentials of either section
type OAuthClient struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty" validate:"omitempty,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// Client returns whichever section the file carries
func (c *OAuthClientConfig) Client() *OAuthClient {
	if c.Installed != nil {
		return c.Installed
	}
	return c.Web
}

// oauthLocation lets the client file live outside the usual search path
type oauthLocation struct {
	Path string `env:"ASSIGNMENTS_OAUTH_CLIENT"`
}

// LoadOAuthClientWithEnv loads the OAuth client for an environment.
// ASSIGNMENTS_OAUTH_CLIENT names the file directly; otherwise env="test"
// looks for "oauthClient.test.json".
func LoadOAuthClientWithEnv(environment string) (*OAuthClientConfig, error) {
	var loc oauthLocation
	if err := env.Parse(&loc); err != nil {
		return nil, fmt.Errorf("failed to read oauth client location: %w", err)
	}
	if loc.Path != "" {
		return LoadOAuthClientFromPath(loc.Path)
	}

	name := "oauthClient.json"
	if environment != "" {
		name = "oauthClient." + environment + ".json"
	}

	path, err := locate(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath loads and validates the OAuth client configuration from a specific path
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := ValidateOAuthClient(&oauthCfg); err != nil {
		return nil, err
	}

	return &oauthCfg, nil
}

// ValidateOAuthClient checks that one client section is present and complete
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	switch {
	case cfg.Installed == nil && cfg.Web == nil:
		return fmt.Errorf("oauth client validation failed: installed or web section is required")
	case cfg.Installed != nil && cfg.Web != nil:
		return fmt.Errorf("oauth client validation failed: only one of installed or web may be set")
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", translate(err))
	}
	return nil
}
