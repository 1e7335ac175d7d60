package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config carries every knob for one generation run. Values resolve in
// order: built-in defaults, then the optional TOML file, then environment
// variables (READMEGEN_*). Command-line flags are layered on by the caller.
type Config struct {
	Out             string   `toml:"out"`
	WorkDir         string   `toml:"work_dir"`
	UseLLM          bool     `toml:"use_llm"`
	Provider        string   `toml:"provider"`
	Model           string   `toml:"model"`
	BaseURL         string   `toml:"base_url"`
	MaxFileSamples  int      `toml:"max_file_samples"`
	MaxPayloadChars int      `toml:"max_payload_chars"`
	PerFileCharCap  int      `toml:"per_file_char_cap"`
	IgnorePatterns  []string `toml:"ignore"`
	UseGitignore    bool     `toml:"use_gitignore"`
	MaxAttempts     int      `toml:"max_attempts"`
	LogLevel        string   `toml:"log_level"`
	LogDir          string   `toml:"log_dir"`

	RetryBaseDelay time.Duration `toml:"-"`
	Timeout        time.Duration `toml:"-"`
}

func Default() Config {
	return Config{
		Out:             "GENERATED_README.md",
		UseLLM:          true,
		Provider:        "gemini",
		Model:           "gemini-2.5-flash",
		MaxFileSamples:  20,
		MaxPayloadChars: 8000,
		PerFileCharCap:  1200,
		UseGitignore:    true,
		MaxAttempts:     3,
		RetryBaseDelay:  500 * time.Millisecond,
		Timeout:         5 * time.Minute,
		LogLevel:        "info",
	}
}

// Load resolves the effective configuration. An empty path skips the file
// layer; a named file that cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := envInt("READMEGEN_MAX_SAMPLES"); v > 0 {
		cfg.MaxFileSamples = v
	}
	if v := envInt("READMEGEN_MAX_PAYLOAD_CHARS"); v > 0 {
		cfg.MaxPayloadChars = v
	}
	if v := envInt("READMEGEN_PER_FILE_CHARS"); v > 0 {
		cfg.PerFileCharCap = v
	}
	if v := strings.TrimSpace(os.Getenv("READMEGEN_IGNORE")); v != "" {
		cfg.IgnorePatterns = splitPatterns(v)
	}
	if v := strings.TrimSpace(os.Getenv("READMEGEN_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("READMEGEN_LOG_DIR")); v != "" {
		cfg.LogDir = v
	}
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

func splitPatterns(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
