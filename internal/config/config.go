package config

import (
	"strings"
	"time"
)

type Config struct {
	Engine    EngineConfig
	Interview InterviewConfig
	Storage   StorageConfig
	Log       LogConfig
}

type EngineConfig struct {
	Backend       string // "ollama" or "openai"
	OllamaBaseURL string
	OpenAIBaseURL string
	Model         string
	APIKey        string
}

// ResolvedModel returns the configured model, or the backend's default.
func (e EngineConfig) ResolvedModel() string {
	if e.Model != "" {
		return e.Model
	}
	if e.Backend == "openai" {
		return "gpt-4o-mini"
	}
	return "llama3.2"
}

type InterviewConfig struct {
	MaxQuestions  int
	SelectTimeout string
	CatalogPath   string // optional custom catalog YAML; empty = built-in
}

// ResolvedSelectTimeout parses SelectTimeout, falling back to 10s on any
// malformed value.
func (i InterviewConfig) ResolvedSelectTimeout() time.Duration {
	d, err := time.ParseDuration(i.SelectTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

type StorageConfig struct {
	DataDir        string
	HistoryEnabled bool
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Engine: EngineConfig{
			Backend:       "ollama",
			OllamaBaseURL: "http://localhost:11434",
			OpenAIBaseURL: "https://api.openai.com/v1",
		},
		Interview: InterviewConfig{
			MaxQuestions:  8,
			SelectTimeout: "10s",
		},
		Storage: StorageConfig{
			DataDir:        defaultDataDir(),
			HistoryEnabled: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from the JSON config file
// ($XDG_CONFIG_HOME/devprompt/config.json), then applies DEVPROMPT_* env
// overrides, then falls back to the platform secret store for the API key.
// A missing API key is not an error here; the openai backend validates it
// at use time.
func Load() (Config, error) {
	return loadWith(newFileBackend(), keychainReader{})
}

// keychain abstracts secret storage access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Engine.APIKey == "" {
		if key, err := kc.Get("devprompt", "api_key"); err == nil && key != "" {
			cfg.Engine.APIKey = key
		}
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
