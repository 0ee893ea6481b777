package model

import (
	"fmt"

	adkmodel "google.golang.org/adk/model"

	"github.com/soochol/viscribe/internal/config"
)

// LLMFactory creates an adkmodel.LLM from the agent config.
type LLMFactory func(cfg config.AgentConfig) adkmodel.LLM

var factories = map[string]LLMFactory{}

// RegisterProvider registers a factory for the given provider type string.
// Called from init() in each model implementation file.
func RegisterProvider(typeName string, factory LLMFactory) {
	factories[typeName] = factory
}

// BuildLLM looks up the factory registered for cfg.Provider.
func BuildLLM(cfg config.AgentConfig) (adkmodel.LLM, error) {
	factory, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown agent provider %q", cfg.Provider)
	}
	return factory(cfg), nil
}
