package llm

import (
	"context"
	"fmt"
)

// Config selects which provider serves each pipeline task. Tasks are
// named stages ("analysis", "sectioning") that may override the global
// active provider.
type Config struct {
	ActiveProvider string                `yaml:"active_provider" json:"active_provider"`
	Tasks          map[string]TaskConfig `yaml:"tasks" json:"tasks"`
}

// TaskConfig is the per-task override block.
type TaskConfig struct {
	Provider    string `yaml:"provider" json:"provider"`
	Model       string `yaml:"model" json:"model"`
	Description string `yaml:"description" json:"description"`
}

// Manager routes pipeline tasks to configured providers.
type Manager struct {
	config    Config
	providers map[string]Provider
}

// NewManager builds a Manager with the standard provider set.
func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]Provider{
			"openai": &OpenAIProvider{},
			"gemini": &GeminiProvider{},
		},
	}
}

// GetProvider resolves the provider for a task: per-task override first,
// then the global active provider, then the gemini fallback.
func (m *Manager) GetProvider(task string) Provider {
	if taskConfig, ok := m.config.Tasks[task]; ok && taskConfig.Provider != "" {
		if p, ok := m.providers[taskConfig.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// ExecutePrompt runs a prompt through the provider configured for the task,
// applying any per-task model override.
func (m *Manager) ExecutePrompt(ctx context.Context, task string, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(task)

	if options == nil {
		options = map[string]interface{}{}
	}
	if taskConfig, ok := m.config.Tasks[task]; ok && taskConfig.Model != "" {
		if _, set := options["model"]; !set {
			options["model"] = taskConfig.Model
		}
	}

	return provider.GenerateResponse(ctx, prompt, systemPrompt, options)
}

// SetGlobalProvider switches the active provider at runtime.
func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	fmt.Printf("Global LLM provider set to: %s\n", name)
	return nil
}

// GetActiveProvider returns the configured global provider name.
func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
