// Package registry builds the platform client a profile's type names.
package registry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/platform/github"
	"github.com/conn-castle/steward/internal/platform/gitlab"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/settings"
)

// Option names read from client.options.
const (
	OptionOrganization     = "organization"
	OptionGroup            = "group"
	OptionIncludeSubgroups = "include_subgroups"
	OptionArchived         = "archived"
)

// Registry resolves credentials and builds clients with shared settings.
type Registry struct {
	Settings   settings.Settings
	Logger     logr.Logger
	LookupEnv  func(string) (string, bool)
	HTTPClient *http.Client
}

// New builds the client for cfg.Type.
func (r Registry) New(cfg config.ProfileConfig) (platform.Client, error) {
	token, err := cfg.Client.Auth.ResolveToken(r.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf(messages.ProfileTemplateFmt, cfg.Name, err)
	}
	logger := r.Logger.WithValues("profile", cfg.Name)

	switch cfg.Type {
	case config.PlatformGitHub:
		api, err := r.api(github.Platform, cfg.Client.URL, github.DefaultBaseURL, github.Authorize(token), logger)
		if err != nil {
			return nil, err
		}
		return github.New(api, github.Options{
			Organization: cfg.Client.Option(OptionOrganization),
		}, logger), nil
	case config.PlatformGitLab:
		api, err := r.api(gitlab.Platform, cfg.Client.URL, gitlab.DefaultBaseURL, gitlab.Authorize(token), logger)
		if err != nil {
			return nil, err
		}
		return gitlab.New(api, gitlab.Options{
			Group:            cfg.Client.Option(OptionGroup),
			IncludeSubgroups: cfg.Client.BoolOption(OptionIncludeSubgroups, true),
			Archived:         cfg.Client.BoolOption(OptionArchived, false),
		}, logger), nil
	default:
		return nil, fmt.Errorf(messages.PlatformUnsupportedFmt, cfg.Type)
	}
}

// Schema returns the static schema of a platform type.
func Schema(platformType string) (repository.Schema, error) {
	switch platformType {
	case config.PlatformGitHub:
		return github.Schema(), nil
	case config.PlatformGitLab:
		return gitlab.Schema(), nil
	default:
		return repository.Schema{}, fmt.Errorf(messages.PlatformUnsupportedFmt, platformType)
	}
}

func (r Registry) api(name, baseURL, fallback string, authorize func(*http.Request), logger logr.Logger) (*platform.API, error) {
	if baseURL == "" {
		baseURL = fallback
	}
	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: time.Duration(r.Settings.HTTP.TimeoutSeconds) * time.Second}
	}
	return platform.NewAPI(platform.APIOptions{
		Platform:          name,
		BaseURL:           baseURL,
		Authorize:         authorize,
		UserAgent:         r.Settings.HTTP.UserAgent,
		MaxRetries:        r.Settings.HTTP.MaxRetries,
		RequestsPerSecond: r.Settings.HTTP.RequestsPerSecond,
		HTTPClient:        client,
		Logger:            logger,
	})
}
