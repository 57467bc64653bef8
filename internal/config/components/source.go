package components

import (
	"em27-metadata/internal/config/shared"
	"em27-metadata/internal/interfaces"
	"strings"
	"time"
)

const (
	SourceLocal    = "local"
	SourceGitHub   = "github"
	SourcePostgres = "postgres"
)

type SourceConfig interface {
	interfaces.Config
}

// SourceConfigImpl selects where the metadata catalog is loaded from.
type SourceConfigImpl struct {
	Kind string `json:"kind"`

	LocationsPath string `json:"locations_path"`
	SensorsPath   string `json:"sensors_path"`
	CampaignsPath string `json:"campaigns_path"`

	GitHubRepository string        `json:"github_repository"`
	GitHubToken      string        `json:"-"`
	GitHubBranch     string        `json:"github_branch"`
	RequestTimeout   time.Duration `json:"request_timeout"`
	RetryCount       int           `json:"retry_count"`

	MinuteAligned bool `json:"minute_aligned"`
}

func NewSourceConfig() SourceConfigImpl {
	config := SourceConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (S *SourceConfigImpl) Load() {
	S.Kind = strings.ToLower(shared.GetEnv("METADATA_SOURCE"))
	S.LocationsPath = shared.GetEnv("METADATA_LOCATIONS_PATH")
	S.SensorsPath = shared.GetEnv("METADATA_SENSORS_PATH")
	S.CampaignsPath = shared.GetEnv("METADATA_CAMPAIGNS_PATH")
	S.GitHubRepository = shared.GetEnv("METADATA_GITHUB_REPOSITORY")
	S.GitHubToken = shared.GetEnv("METADATA_GITHUB_TOKEN")
	S.GitHubBranch = shared.GetEnv("METADATA_GITHUB_BRANCH")
	S.RequestTimeout = shared.GetEnvAsDuration("METADATA_REQUEST_TIMEOUT")
	S.RetryCount = shared.GetEnvAsInt("METADATA_RETRY_COUNT")
	S.MinuteAligned = shared.GetEnvAsBool("METADATA_MINUTE_ALIGNED", false)
}

func (S *SourceConfigImpl) SetDefaults() {
	if S.Kind == "" {
		S.Kind = SourceLocal
	}
	if S.LocationsPath == "" {
		S.LocationsPath = "data/locations.json"
	}
	if S.SensorsPath == "" {
		S.SensorsPath = "data/sensors.json"
	}
	if S.GitHubBranch == "" {
		S.GitHubBranch = "main"
	}
	if S.RequestTimeout <= 0 {
		S.RequestTimeout = 10 * time.Second
	}
	if S.RetryCount <= 0 {
		S.RetryCount = 3
	}
}

func (S *SourceConfigImpl) Validate() error {
	switch S.Kind {
	case SourceLocal:
		if S.LocationsPath == "" {
			return shared.NewConfigError("source", "METADATA_LOCATIONS_PATH", nil, "is required for the local source")
		}
		if S.SensorsPath == "" {
			return shared.NewConfigError("source", "METADATA_SENSORS_PATH", nil, "is required for the local source")
		}
	case SourceGitHub:
		if S.GitHubRepository == "" || !strings.Contains(S.GitHubRepository, "/") {
			return shared.NewConfigError("source", "METADATA_GITHUB_REPOSITORY", S.GitHubRepository, "must look like owner/name")
		}
	case SourcePostgres:
	default:
		return shared.NewConfigError("source", "METADATA_SOURCE", S.Kind, "must be one of local, github, postgres")
	}
	return nil
}

var _ SourceConfig = (*SourceConfigImpl)(nil)
