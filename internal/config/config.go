package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobber"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	ProfileFileName = "profile.yaml"
	DatabaseName    = "jobber.db"
	ArtifactsDir    = "artifacts"
)

var ErrMissingSMTP = errors.New("smtp is not configured (set smtp.host, smtp.username and smtp.from)")

// Config is the on-disk configuration. Credentials never live here; they
// come from the environment or the OS keyring.
type Config struct {
	Search       SearchConfig    `json:"search"`
	Browser      BrowserConfig   `json:"browser"`
	Scan         ScanConfig      `json:"scan"`
	Apply        ApplyConfig     `json:"apply"`
	Pipeline     PipelineConfig  `json:"pipeline"`
	OpenAI       OpenAIConfig    `json:"openai"`
	SMTP         SMTPConfig      `json:"smtp"`
	Artifacts    ArtifactsConfig `json:"artifacts"`
	DatabasePath string          `json:"database_path"`
}

type SearchConfig struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Country  string `json:"country"`
}

type BrowserConfig struct {
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// Models returns the browser settings with the given proxies.
func (b BrowserConfig) Models(proxies []string) models.BrowserConfig {
	return models.BrowserConfig{
		Proxies:           proxies,
		Timeout:           time.Duration(b.TimeoutSeconds) * time.Second,
		RequestsPerSecond: b.RequestsPerSecond,
		Burst:             b.Burst,
	}
}

type ScanConfig struct {
	// Pairing is "position" or "cursor".
	Pairing string `json:"pairing"`
}

type ApplyConfig struct {
	MaxOutlinks     int  `json:"max_outlinks"`
	SkipUnreachable bool `json:"skip_unreachable"`
	MatchMailto     bool `json:"match_mailto"`
}

type PipelineConfig struct {
	Concurrency int `json:"concurrency"`
}

type OpenAIConfig struct {
	APIKey               string `json:"-"`
	Model                string `json:"model"`
	MaxDescriptionTokens int    `json:"max_description_tokens"`
	MaxAttempts          int    `json:"max_attempts"`
}

type SMTPConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Username       string `json:"username"`
	From           string `json:"from"`
	SenderName     string `json:"sender_name"`
	KeyringAccount string `json:"keyring_account"`
}

func (s SMTPConfig) Validate() error {
	if strings.TrimSpace(s.Host) == "" || strings.TrimSpace(s.Username) == "" || strings.TrimSpace(s.From) == "" {
		return ErrMissingSMTP
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("smtp.port %d is out of range", s.Port)
	}
	return nil
}

type ArtifactsConfig struct {
	Dir           string `json:"dir"`
	ProfilePath   string `json:"profile_path"`
	ResumeCommand string `json:"resume_command"`
	ResumeTheme   string `json:"resume_theme"`
	PDFCommand    string `json:"pdf_command"`
	PDFStylesheet string `json:"pdf_stylesheet"`
}

func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			Query:    envString("JOBBER_QUERY", ""),
			Location: envString("JOBBER_LOCATION", ""),
			Country:  envString("JOBBER_COUNTRY", "usa"),
		},
		Browser: BrowserConfig{
			TimeoutSeconds:    envInt("JOBBER_TIMEOUT_SECONDS", 30),
			RequestsPerSecond: envFloat("JOBBER_REQUESTS_PER_SECOND", 1),
			Burst:             2,
		},
		Scan: ScanConfig{Pairing: envString("JOBBER_PAIRING", "position")},
		Apply: ApplyConfig{
			MaxOutlinks: envInt("JOBBER_MAX_OUTLINKS", 50),
		},
		Pipeline: PipelineConfig{Concurrency: envInt("JOBBER_CONCURRENCY", 2)},
		OpenAI: OpenAIConfig{
			APIKey:      envString("OPENAI_API_KEY", ""),
			Model:       envString("JOBBER_OPENAI_MODEL", "gpt-4o-mini"),
			MaxAttempts: 3,
		},
		SMTP: SMTPConfig{
			Host:       envString("JOBBER_SMTP_HOST", ""),
			Port:       envInt("JOBBER_SMTP_PORT", 465),
			Username:   envString("JOBBER_SMTP_USERNAME", ""),
			From:       envString("JOBBER_SMTP_FROM", ""),
			SenderName: envString("JOBBER_SENDER_NAME", ""),
		},
		Artifacts: ArtifactsConfig{
			ResumeCommand: "resumy",
			PDFCommand:    "md2pdf",
		},
		DatabasePath: envString("JOBBER_DATABASE_PATH", ""),
	}
}

// ConfigDir is $JOBBER_CONFIG_DIR, or jobber under the user config dir.
func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("JOBBER_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	dir, err := ConfigDir()
	if err != nil {
		return cfg, err
	}
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.resolvePaths(dir)
	return cfg, nil
}

// resolvePaths fills unset file locations with defaults inside dir.
func (c *Config) resolvePaths(dir string) {
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dir, DatabaseName)
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = filepath.Join(dir, ArtifactsDir)
	}
	if c.Artifacts.ProfilePath == "" {
		c.Artifacts.ProfilePath = filepath.Join(dir, ProfileFileName)
	}
}

// Init writes default config.json, proxies.txt and the profile template if
// they don't already exist.
func Init(profileTemplate string) ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	files := []struct {
		name string
		data func() ([]byte, error)
	}{
		{ConfigFileName, func() ([]byte, error) { return marshalConfig(DefaultConfig()) }},
		{ProxiesFileName, func() ([]byte, error) { return []byte(""), nil }},
		{ProfileFileName, func() ([]byte, error) { return []byte(profileTemplate), nil }},
	}
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		data, err := file.data()
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return created, err
		}
		created = append(created, path)
	}

	return created, nil
}

func marshalConfig(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBBER_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
