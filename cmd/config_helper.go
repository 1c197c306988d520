package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bascanada/fhirquery/pkg/capability"
	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/fhir/search"
	httpPkg "github.com/bascanada/fhirquery/pkg/http"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		errorMsg := "failed to load config"
		switch {
		case errors.Is(err, config.ErrConfigParse):
			errorMsg = "invalid configuration file format"
		case errors.Is(err, config.ErrConfigNotFound):
			errorMsg = "configuration file not found"
		}
		if path != "" {
			return nil, fmt.Errorf("%s %s: %w", errorMsg, path, err)
		}
		return nil, fmt.Errorf("%s: %w", errorMsg, err)
	}
	return cfg, nil
}

// newValidator builds a validator from the config, tolerating a nil
// config for bare usage.
func newValidator(cfg *config.Config) *search.Validator {
	opts := search.Options{Strict: strictMode}
	if cfg != nil {
		opts.Strict = opts.Strict || cfg.Validator.Strict
		opts.ResourceTypes = cfg.Validator.CustomResourceTypes
		opts.Modifiers = cfg.Validator.CustomModifiers
	}
	return search.New(opts)
}

// resolveServerName returns the server selected by flag, falling back
// to the persisted current server.
func resolveServerName() string {
	if serverName != "" {
		return serverName
	}
	state, err := config.LoadState()
	if err != nil {
		return ""
	}
	return state.CurrentServer
}

// applyServerCapability fetches {base}/metadata from the named server
// and extends the validator with the resource types it declares.
func applyServerCapability(ctx context.Context, cfg *config.Config, name string, v *search.Validator) error {
	if cfg == nil {
		return errors.New("no configuration loaded; --server requires a config with a matching entry")
	}
	srv, err := cfg.GetServer(name)
	if err != nil {
		return err
	}

	client := httpPkg.GetClient(srv.URL)
	var auth httpPkg.Auth
	switch {
	case srv.Cookie != "":
		auth = httpPkg.CookieAuth{Cookie: srv.Cookie}
	case len(srv.Headers) > 0:
		auth = httpPkg.HeaderAuth{Headers: srv.Headers}
	}

	stmt, err := capability.Fetch(ctx, client, auth)
	if err != nil {
		return fmt.Errorf("fetching capability from server %q: %w", name, err)
	}
	stmt.Apply(v)
	return nil
}
