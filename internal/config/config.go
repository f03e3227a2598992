package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Redis   RedisConfig
	TTS     TTSConfig
	Dict    DictConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	DataDir  string // sqlite database + vocabulary book live here
	AudioDir string // generated MP3 artifacts
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TTSConfig struct {
	BinPath      string // edge-tts compatible binary
	DefaultVoice string
	DefaultRate  string // signed percentage, e.g. "+0%" or "-15%"
	Concurrency  int    // batch generation ceiling
	JobTimeout   time.Duration
}

type DictConfig struct {
	PrimaryBaseURL  string
	FallbackBaseURL string
	Timeout         time.Duration
	CacheTTL        time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	concurrency, err := getEnvInt("TTS_CONCURRENCY", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_CONCURRENCY: %w", err)
	}

	jobTimeout, err := getEnvDuration("TTS_JOB_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_JOB_TIMEOUT: %w", err)
	}

	dictTimeout, err := getEnvDuration("DICT_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid DICT_TIMEOUT: %w", err)
	}

	cacheTTL, err := getEnvDuration("DICT_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid DICT_CACHE_TTL: %w", err)
	}

	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
			Port: port,
		},
		Storage: StorageConfig{
			DataDir:  dataDir,
			AudioDir: getEnv("AUDIO_DIR", filepath.Join(dataDir, "audio")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		TTS: TTSConfig{
			BinPath:      getEnv("TTS_BIN", "edge-tts"),
			DefaultVoice: getEnv("TTS_DEFAULT_VOICE", "en-US-AriaNeural"),
			DefaultRate:  getEnv("TTS_DEFAULT_RATE", "+0%"),
			Concurrency:  concurrency,
			JobTimeout:   jobTimeout,
		},
		Dict: DictConfig{
			PrimaryBaseURL:  getEnv("DICT_PRIMARY_URL", "https://api.dictionaryapi.dev"),
			FallbackBaseURL: getEnv("DICT_FALLBACK_URL", "https://api.datamuse.com"),
			Timeout:         dictTimeout,
			CacheTTL:        cacheTTL,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var invalid []string
	if c.TTS.Concurrency < 1 {
		invalid = append(invalid, "TTS_CONCURRENCY must be >= 1")
	}
	if !strings.HasSuffix(c.TTS.DefaultRate, "%") {
		invalid = append(invalid, "TTS_DEFAULT_RATE must be a signed percentage like +10%")
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(invalid, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
