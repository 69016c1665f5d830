package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./config.yaml"

type Config struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	// PublicBaseURL: внешний адрес шлюза для downloadUrl; пустой означает «взять из запроса».
	PublicBaseURL string          `yaml:"public_base_url" json:"public_base_url"`
	Converter     ConverterConfig `yaml:"converter" json:"converter"`
	Storage       StorageConfig   `yaml:"storage" json:"storage"`
	Janitor       JanitorConfig   `yaml:"janitor" json:"janitor"`
	HTTP          HTTPConfig      `yaml:"http" json:"http"`
	Log           LogConfig       `yaml:"log" json:"log"`
}

// ConverterConfig описывает внешний сервис конвертации.
type ConverterConfig struct {
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	TargetExt   string        `yaml:"target_ext" json:"target_ext"`
	MaxInFlight int64         `yaml:"max_in_flight" json:"max_in_flight"`
}

// StorageConfig описывает shared storage с зонами uploads/ и results/.
type StorageConfig struct {
	Root        string `yaml:"root" json:"root"`
	KeepSources bool   `yaml:"keep_sources" json:"keep_sources"`
}

// JanitorConfig управляет фоновой очисткой зон.
type JanitorConfig struct {
	Interval  time.Duration `yaml:"interval" json:"interval"`
	UploadTTL time.Duration `yaml:"upload_ttl" json:"upload_ttl"`
	ResultTTL time.Duration `yaml:"result_ttl" json:"result_ttl"`
}

type HTTPConfig struct {
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	CORSOrigins     []string      `yaml:"cors_origins" json:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	// TrustProxy разрешает брать схему из X-Forwarded-Proto; включать только за своим прокси.
	TrustProxy bool `yaml:"trust_proxy" json:"trust_proxy"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default возвращает конфигурацию, с которой шлюз стартует без файла.
func Default() *Config {
	return &Config{
		ListenAddr: ":3000",
		Converter: ConverterConfig{
			BaseURL:     "http://localhost:5000",
			Timeout:     2 * time.Minute,
			TargetExt:   ".pdf",
			MaxInFlight: 8,
		},
		Storage: StorageConfig{
			Root: "./shared-storage",
		},
		Janitor: JanitorConfig{
			Interval:  30 * time.Minute,
			UploadTTL: 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			MaxUploadBytes:  50 << 20,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load читает .env и YAML-конфигурацию из CONFIG_PATH, применяет ENV-переопределения.
// Отсутствие файла по пути по умолчанию не ошибка: используются дефолты.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		return load(defaultConfigPath, true)
	}

	return load(path, false)
}

// LoadFile читает конкретный файл; в отличие от Load файл обязан существовать.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return load(path, false)
}

func load(path string, optional bool) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// applyEnv: ENV override поверх файла.
func (c *Config) applyEnv() error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
	if v := os.Getenv("CONVERTER_BASE_URL"); v != "" {
		c.Converter.BaseURL = v
	}
	if v := os.Getenv("STORAGE_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.HTTP.CORSOrigins = splitComma(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	if v := os.Getenv("CONVERTER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CONVERTER_TIMEOUT: %w", err)
		}
		c.Converter.Timeout = d
	}
	if v := os.Getenv("MAX_IN_FLIGHT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_IN_FLIGHT: %w", err)
		}
		c.Converter.MaxInFlight = n
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.HTTP.MaxUploadBytes = n
	}
	if v := os.Getenv("KEEP_SOURCES"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("KEEP_SOURCES: %w", err)
		}
		c.Storage.KeepSources = keep
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.HTTP.TrustProxy = trust
	}

	return nil
}

// Validate проверяет обязательные поля и формат адресов.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen_addr is not configured")
	}
	if err := checkBaseURL("converter.base_url", c.Converter.BaseURL); err != nil {
		return err
	}
	if c.PublicBaseURL != "" {
		if err := checkBaseURL("public_base_url", c.PublicBaseURL); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Storage.Root) == "" {
		return fmt.Errorf("storage.root is not configured")
	}
	if !validExt(c.Converter.TargetExt) {
		return fmt.Errorf("converter.target_ext %q must look like .pdf", c.Converter.TargetExt)
	}
	if c.Converter.Timeout < 0 {
		return fmt.Errorf("converter.timeout must not be negative")
	}
	if c.Converter.MaxInFlight < 0 {
		return fmt.Errorf("converter.max_in_flight must not be negative")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("http.max_upload_bytes must be > 0")
	}

	return nil
}

func checkBaseURL(field, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q must be an absolute http(s) URL", field, raw)
	}

	return nil
}

func validExt(ext string) bool {
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}

	return true
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
