package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Generator GeneratorConfig
	Storage   StorageConfig
	Bank      BankConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	generator, err := loadGeneratorConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Generator: generator,
		Storage:   loadStorageConfig(),
		Bank:      BankConfig{File: strings.TrimSpace(os.Getenv("QUESTION_BANK_FILE"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the remote completion model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// GeneratorConfig controls the question generator.
type GeneratorConfig struct {
	Cooldown time.Duration
}

func loadGeneratorConfig() (GeneratorConfig, error) {
	seconds, err := parseOptionalIntEnv("GENERATOR_COOLDOWN_SECONDS")
	if err != nil {
		return GeneratorConfig{}, err
	}

	cooldown := 2 * time.Second
	if seconds != nil {
		if *seconds < 0 {
			return GeneratorConfig{}, fmt.Errorf("GENERATOR_COOLDOWN_SECONDS must not be negative")
		}
		cooldown = time.Duration(*seconds) * time.Second
	}

	return GeneratorConfig{Cooldown: cooldown}, nil
}

// StorageConfig describes the session store and the optional vector index.
type StorageConfig struct {
	Path   string
	Vector VectorConfig
}

// VectorConfig describes the external vector index used for search ranking.
type VectorConfig struct {
	APIKey    string
	Host      string
	IndexName string
}

// Enabled reports whether the vector backend is configured.
func (c VectorConfig) Enabled() bool {
	return c.APIKey != "" && c.Host != ""
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Path: getEnvOrDefault("QUESTION_STORE_PATH", "data/questions_storage.json"),
		Vector: VectorConfig{
			APIKey:    strings.TrimSpace(os.Getenv("VECTOR_API_KEY")),
			Host:      strings.TrimSpace(os.Getenv("VECTOR_INDEX_HOST")),
			IndexName: getEnvOrDefault("VECTOR_INDEX_NAME", "interview-questions"),
		},
	}
}

// BankConfig points at the optional YAML question bank override.
type BankConfig struct {
	File string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return &val, nil
}
