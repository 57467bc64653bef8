package loader

import (
	"context"
	"em27-metadata/internal/models"
	"fmt"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"time"
)

const (
	DefaultGitHubBaseURL = "https://raw.githubusercontent.com"
	DefaultGitHubBranch  = "main"
)

type GitHubOptions struct {
	// Repository in the form "owner/name".
	Repository string
	Branch     string
	Token      string
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// GitHubSource fetches data/locations.json, data/sensors.json and data/campaigns.json from a repository.
type GitHubSource struct {
	httpClient *resty.Client
	options    GitHubOptions
	parser     Parser
	logger     zerolog.Logger
}

func NewGitHubSource(options GitHubOptions, parser Parser, logger zerolog.Logger) *GitHubSource {
	if options.BaseURL == "" {
		options.BaseURL = DefaultGitHubBaseURL
	}
	if options.Branch == "" {
		options.Branch = DefaultGitHubBranch
	}
	if options.Timeout <= 0 {
		options.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(options.BaseURL).
		SetTimeout(options.Timeout).
		SetRetryCount(options.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/text")
	if options.Token != "" {
		client.SetHeader("Authorization", "token "+options.Token)
	}

	return &GitHubSource{
		httpClient: client,
		options:    options,
		parser:     parser,
		logger:     logger,
	}
}

func (s *GitHubSource) Load(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}

	locationsData, err := s.request(ctx, "locations")
	if err != nil {
		return nil, err
	}
	if out.Locations, err = s.parser.ParseLocations(locationsData); err != nil {
		return nil, fmt.Errorf("file at '%s': %w", s.path("locations"), err)
	}

	sensorsData, err := s.request(ctx, "sensors")
	if err != nil {
		return nil, err
	}
	if out.Sensors, err = s.parser.ParseSensors(sensorsData); err != nil {
		return nil, fmt.Errorf("file at '%s': %w", s.path("sensors"), err)
	}

	campaignsData, err := s.request(ctx, "campaigns")
	if err != nil {
		return nil, err
	}
	if out.Campaigns, err = s.parser.ParseCampaigns(campaignsData); err != nil {
		return nil, fmt.Errorf("file at '%s': %w", s.path("campaigns"), err)
	}
	if out.Campaigns == nil {
		out.Campaigns = []models.Campaign{}
	}

	s.logger.Info().
		Str("repository", s.options.Repository).
		Str("branch", s.options.Branch).
		Int("locations", len(out.Locations)).
		Int("sensors", len(out.Sensors)).
		Int("campaigns", len(out.Campaigns)).
		Msg("Loaded metadata from GitHub")

	return out, nil
}

func (s *GitHubSource) path(name string) string {
	return fmt.Sprintf("/%s/%s/data/%s.json", s.options.Repository, s.options.Branch, name)
}

func (s *GitHubSource) request(ctx context.Context, name string) ([]byte, error) {
	path := s.path(name)

	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		s.logger.Error().Err(err).
			Str("path", path).
			Msg("GitHub request failed")
		return nil, fmt.Errorf("failed to request %s: %w", path, err)
	}

	if resp.IsError() {
		s.logger.Error().
			Str("path", path).
			Int("status_code", resp.StatusCode()).
			Msg("GitHub returned an error")
		return nil, fmt.Errorf("failed to request %s: status %d", path, resp.StatusCode())
	}

	return resp.Body(), nil
}
