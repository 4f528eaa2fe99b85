package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/record"
	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobfeed"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	EnvFileName     = ".env"
	DataDirName     = "data"
)

const (
	BackendMemory   = "memory"
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendFirebase = "firebase"
)

var ErrMissingOwner = errors.New("owner_id is not configured (set it in config.json or JOBFEED_OWNER_ID)")

// StoreConfig selects and addresses the record store.
type StoreConfig struct {
	Backend string `json:"backend"`
	DSN     string `json:"dsn"`
	Unique  bool   `json:"unique"`
	Auth    string `json:"auth,omitempty"`
}

// Config contains the identity attached to every record plus crawl and
// store defaults.
type Config struct {
	OwnerID            string      `json:"owner_id"`
	ContactEmail       string      `json:"contact_email"`
	ContactPhone       string      `json:"contact_phone"`
	CompanyPlaceholder string      `json:"company_placeholder"`
	TaxonomyPath       string      `json:"taxonomy_path"`
	ListingURL         string      `json:"listing_url"`
	Pages              int         `json:"pages"`
	PerPage            int         `json:"per_page"`
	Retries            int         `json:"retries"`
	DelayMS            int         `json:"delay_ms"`
	FetchTimeoutSec    int         `json:"fetch_timeout_seconds"`
	StoreTimeoutSec    int         `json:"store_timeout_seconds"`
	SitemapBaseURL     string      `json:"sitemap_base_url"`
	Store              StoreConfig `json:"store"`
}

func DefaultConfig() Config {
	return Config{
		CompanyPlaceholder: record.DefaultCompany,
		ListingURL:         "https://www.sahibinden.com/is-ilanlari",
		Pages:              1,
		PerPage:            0,
		Retries:            2,
		DelayMS:            1500,
		FetchTimeoutSec:    30,
		StoreTimeoutSec:    15,
		Store: StoreConfig{
			Backend: BackendJSONFile,
		},
	}
}

func ConfigDir() (string, error) {
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

// DataDir is where the jsonfile and sqlite backends keep their files when
// no dsn is configured.
func DataDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DataDirName), nil
}

// LoadEnv reads .env from the working directory and then from the config
// directory. Variables already set in the environment win.
func LoadEnv() error {
	paths := []string{EnvFileName}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, EnvFileName))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}

// Load returns defaults overlaid with config.json and then JOBFEED_* env vars.
func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.OwnerID = envString("JOBFEED_OWNER_ID", cfg.OwnerID)
	cfg.ContactEmail = envString("JOBFEED_CONTACT_EMAIL", cfg.ContactEmail)
	cfg.ContactPhone = envString("JOBFEED_CONTACT_PHONE", cfg.ContactPhone)
	cfg.CompanyPlaceholder = envString("JOBFEED_COMPANY", cfg.CompanyPlaceholder)
	cfg.TaxonomyPath = envString("JOBFEED_TAXONOMY", cfg.TaxonomyPath)
	cfg.ListingURL = envString("JOBFEED_LISTING_URL", cfg.ListingURL)
	cfg.Pages = envInt("JOBFEED_PAGES", cfg.Pages)
	cfg.PerPage = envInt("JOBFEED_PER_PAGE", cfg.PerPage)
	cfg.Retries = envInt("JOBFEED_RETRIES", cfg.Retries)
	cfg.DelayMS = envInt("JOBFEED_DELAY_MS", cfg.DelayMS)
	cfg.FetchTimeoutSec = envInt("JOBFEED_FETCH_TIMEOUT", cfg.FetchTimeoutSec)
	cfg.StoreTimeoutSec = envInt("JOBFEED_STORE_TIMEOUT", cfg.StoreTimeoutSec)
	cfg.SitemapBaseURL = envString("JOBFEED_SITEMAP_BASE_URL", cfg.SitemapBaseURL)
	cfg.Store.Backend = envString("JOBFEED_STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.DSN = envString("JOBFEED_STORE_DSN", cfg.Store.DSN)
	cfg.Store.Auth = envString("JOBFEED_STORE_AUTH", cfg.Store.Auth)
	cfg.Store.Unique = envBool("JOBFEED_STORE_UNIQUE", cfg.Store.Unique)
}

// Identity returns the owner and contact details stamped on records.
func (c Config) Identity() record.Identity {
	return record.Identity{
		OwnerID:            strings.TrimSpace(c.OwnerID),
		ContactEmail:       strings.TrimSpace(c.ContactEmail),
		ContactPhone:       strings.TrimSpace(c.ContactPhone),
		CompanyPlaceholder: strings.TrimSpace(c.CompanyPlaceholder),
	}
}

// RequireOwner reports a misconfiguration when no owner id is set.
func (c Config) RequireOwner() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return ErrMissingOwner
	}
	return nil
}

func (c Config) FetchOptions() models.FetchOptions {
	return models.FetchOptions{
		FetchTimeout: time.Duration(c.FetchTimeoutSec) * time.Second,
		StoreTimeout: time.Duration(c.StoreTimeoutSec) * time.Second,
		Retries:      c.Retries,
		Delay:        time.Duration(c.DelayMS) * time.Millisecond,
	}
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBFEED_PROXIES")); env != "" {
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

func envBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
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
