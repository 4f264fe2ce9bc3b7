package extractor

import (
	"fmt"

	"polisure/internal/config"
	"polisure/internal/port"
)

// ProviderFactory is a function that creates a ClaimExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.ClaimExtractor, error)

// registry of extractor provider factories, populated explicitly via
// RegisterProvider at wiring time.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a ClaimExtractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.ClaimExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
