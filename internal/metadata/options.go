package metadata

import "github.com/rs/zerolog"

type options struct {
	auxiliary       map[PropertyKind]bool
	profileFallback bool
	logger          zerolog.Logger
}

func defaultOptions() options {
	auxiliary := map[PropertyKind]bool{}
	for _, kind := range AuxiliaryKinds() {
		auxiliary[kind] = true
	}
	return options{
		auxiliary:       auxiliary,
		profileFallback: true,
		logger:          zerolog.Nop(),
	}
}

type Option func(*options)

// WithAuxiliaryKinds selects which auxiliary property series take part in resolution. Series of inactive
// kinds are ignored and their values come from the setups alone.
func WithAuxiliaryKinds(kinds ...PropertyKind) Option {
	return func(o *options) {
		o.auxiliary = map[PropertyKind]bool{}
		for _, kind := range kinds {
			if kind != KindSetup {
				o.auxiliary[kind] = true
			}
		}
	}
}

// WithProfileFallback controls whether a setup without atmospheric profile location uses its own location.
func WithProfileFallback(enabled bool) Option {
	return func(o *options) {
		o.profileFallback = enabled
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
