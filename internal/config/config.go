package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds configuration for an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	// AllowNoKey lets keyless local servers (Ollama, llama.cpp) through.
	AllowNoKey bool `yaml:"allow_no_key,omitempty"`
}

// GeminiConfig holds configuration for the Gemini API.
type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// GenerationConfig selects the language backend shared by all stages.
type GenerationConfig struct {
	Type        string        `yaml:"type"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens,omitempty"`
	TimeoutSecs int           `yaml:"timeout_secs"`
	Retries     int           `yaml:"retries"`
	OpenAI      *OpenAIConfig `yaml:"openai,omitempty"`
	Gemini      *GeminiConfig `yaml:"gemini,omitempty"`
}

func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// RetrievalConfig selects the ranking store for the regulation text.
type RetrievalConfig struct {
	Type        string `yaml:"type"`
	Path        string `yaml:"path,omitempty"`
	Limit       int    `yaml:"limit"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	Retries     int    `yaml:"retries"`
	// Sources are .txt files or globs ingested at startup. Required for the
	// memory store, optional for sqlite which keeps its index on disk.
	Sources []string `yaml:"sources,omitempty"`
}

func (r RetrievalConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// RedisConfig contains connection details for the Redis conversation store.
type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	TTLHours  int    `yaml:"ttl_hours,omitempty"`
}

// ConversationConfig selects where chat history is kept.
type ConversationConfig struct {
	Type  string       `yaml:"type"`
	Path  string       `yaml:"path,omitempty"`
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxLength      int    `yaml:"max_length"`
	ShutdownSecs   int    `yaml:"shutdown_secs"`
	ReadHeaderSecs int    `yaml:"read_header_secs"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Generation   GenerationConfig   `yaml:"generation"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Conversation ConversationConfig `yaml:"conversation"`
	Chunker      ChunkerConfig      `yaml:"chunker"`
	Summarizer   SummarizerConfig   `yaml:"summarizer"`
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/aiact/config.yaml.
// If neither exists, it writes defaults to ~/.config/aiact/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects unknown component types.
func (c *AppConfig) Validate() error {
	checks := []struct {
		section, value string
		allowed        []string
	}{
		{"generation.type", c.Generation.Type, []string{"openai", "gemini"}},
		{"retrieval.type", c.Retrieval.Type, []string{"memory", "sqlite"}},
		{"conversation.type", c.Conversation.Type, []string{"memory", "sqlite", "redis"}},
		{"chunker.type", c.Chunker.Type, []string{"page", "sentence"}},
		{"summarizer.type", c.Summarizer.Type, []string{"frequency"}},
		{"log.format", c.Log.Format, []string{"json", "console"}},
	}
	for _, ch := range checks {
		if !contains(ch.allowed, ch.value) {
			return fmt.Errorf("unknown %s %q (want one of %v)", ch.section, ch.value, ch.allowed)
		}
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature %v out of range [0, 2]", c.Generation.Temperature)
	}
	if c.Retrieval.Type == "sqlite" && c.Retrieval.Path == "" {
		return errors.New("retrieval.path is required for the sqlite store")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "aiact", "config.yaml"), nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aiact"
	}
	return filepath.Join(home, ".local", "share", "aiact")
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Generation:   GenerationConfig{Type: "openai", Temperature: 0.7},
		Retrieval:    RetrievalConfig{Type: "sqlite"},
		Conversation: ConversationConfig{Type: "memory"},
		Chunker:      ChunkerConfig{Type: "page"},
		Summarizer:   SummarizerConfig{Type: "frequency"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	g := &cfg.Generation
	if g.Type == "" {
		g.Type = "openai"
	}
	if g.TimeoutSecs == 0 {
		g.TimeoutSecs = 60
	}
	switch g.Type {
	case "openai":
		if g.OpenAI == nil {
			g.OpenAI = &OpenAIConfig{}
		}
		if g.OpenAI.BaseURL == "" {
			g.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if g.OpenAI.APIKeyEnv == "" {
			g.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if g.OpenAI.Model == "" {
			g.OpenAI.Model = "gpt-3.5-turbo"
		}
	case "gemini":
		if g.Gemini == nil {
			g.Gemini = &GeminiConfig{}
		}
		if g.Gemini.APIKeyEnv == "" {
			g.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
		if g.Gemini.Model == "" {
			g.Gemini.Model = "gemini-2.0-flash"
		}
	}

	r := &cfg.Retrieval
	if r.Type == "" {
		r.Type = "memory"
	}
	if r.Type == "sqlite" && r.Path == "" {
		r.Path = filepath.Join(defaultDataDir(), "aiact.db")
	}
	if r.Limit == 0 {
		r.Limit = 2
	}
	if r.TimeoutSecs == 0 {
		r.TimeoutSecs = 10
	}

	c := &cfg.Conversation
	if c.Type == "" {
		c.Type = "memory"
	}
	if c.Type == "sqlite" && c.Path == "" {
		c.Path = filepath.Join(defaultDataDir(), "conversations.db")
	}
	if c.Type == "redis" {
		if c.Redis == nil {
			c.Redis = &RedisConfig{}
		}
		if c.Redis.Address == "" {
			c.Redis.Address = "localhost:6379"
		}
		if c.Redis.KeyPrefix == "" {
			c.Redis.KeyPrefix = "aiact"
		}
	}

	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "page"
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}

	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = ":8000"
	}
	if s.MaxLength == 0 {
		s.MaxLength = 10000
	}
	if s.ShutdownSecs == 0 {
		s.ShutdownSecs = 10
	}
	if s.ReadHeaderSecs == 0 {
		s.ReadHeaderSecs = 10
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}
