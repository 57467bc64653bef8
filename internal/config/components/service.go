package components

import (
	"em27-metadata/internal/config/shared"
	"em27-metadata/internal/interfaces"
	"em27-metadata/internal/metadata"
	"strings"
	"time"
)

type ServiceConfig interface {
	interfaces.Config
}

type ServiceConfigImpl struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// AuxiliaryKinds lists the active auxiliary series. nil activates all of them, "none" none.
	AuxiliaryKinds  []string `json:"auxiliary_kinds"`
	ProfileFallback bool     `json:"profile_fallback"`

	QueryTimeout         time.Duration `json:"query_timeout"`
	MaxConcurrentQueries int           `json:"max_concurrent_queries"`
}

func NewServiceConfig() ServiceConfigImpl {
	config := ServiceConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (S *ServiceConfigImpl) Load() {
	S.Name = shared.GetEnv("SERVICE_NAME")
	S.Version = shared.GetEnv("SERVICE_VERSION")
	S.AuxiliaryKinds = shared.GetEnvAsList("AUXILIARY_KINDS")
	S.ProfileFallback = shared.GetEnvAsBool("PROFILE_FALLBACK", true)
	S.QueryTimeout = shared.GetEnvAsDuration("QUERY_TIMEOUT")
	S.MaxConcurrentQueries = shared.GetEnvAsInt("MAX_CONCURRENT_QUERIES")
}

func (S *ServiceConfigImpl) SetDefaults() {
	if S.Name == "" {
		S.Name = "em27-metadata"
	}
	if S.Version == "" {
		S.Version = "1.0.0"
	}
	if S.QueryTimeout <= 0 {
		S.QueryTimeout = 5 * time.Second
	}
	if S.MaxConcurrentQueries <= 0 {
		S.MaxConcurrentQueries = 10
	}
}

func (S *ServiceConfigImpl) Validate() error {
	if S.Name == "" {
		return shared.NewConfigError("service", "SERVICE_NAME", nil, "is required")
	}
	if S.Version == "" {
		return shared.NewConfigError("service", "SERVICE_VERSION", nil, "is required")
	}
	if _, err := S.ParseAuxiliaryKinds(); err != nil {
		return shared.NewConfigError("service", "AUXILIARY_KINDS", strings.Join(S.AuxiliaryKinds, ","), err.Error())
	}
	if S.QueryTimeout <= 0 {
		return shared.NewConfigError("service", "QUERY_TIMEOUT", S.QueryTimeout, "must be greater than 0")
	}
	if S.MaxConcurrentQueries <= 0 {
		return shared.NewConfigError("service", "MAX_CONCURRENT_QUERIES", S.MaxConcurrentQueries, "must be greater than 0")
	}
	return nil
}

// ParseAuxiliaryKinds resolves the configured names. An unset list activates every auxiliary kind.
func (S *ServiceConfigImpl) ParseAuxiliaryKinds() ([]metadata.PropertyKind, error) {
	if S.AuxiliaryKinds == nil {
		return metadata.AuxiliaryKinds(), nil
	}

	kinds := []metadata.PropertyKind{}
	for _, name := range S.AuxiliaryKinds {
		if strings.EqualFold(name, "none") {
			continue
		}
		kind, err := metadata.ParsePropertyKind(name)
		if err != nil {
			return nil, err
		}
		if kind == metadata.KindSetup {
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// CatalogOptions translates the service settings into catalog options.
func (S *ServiceConfigImpl) CatalogOptions() ([]metadata.Option, error) {
	kinds, err := S.ParseAuxiliaryKinds()
	if err != nil {
		return nil, err
	}
	return []metadata.Option{
		metadata.WithAuxiliaryKinds(kinds...),
		metadata.WithProfileFallback(S.ProfileFallback),
	}, nil
}

var _ ServiceConfig = (*ServiceConfigImpl)(nil)
