package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig      `yaml:"ocr"`
	PDF      PDFConfig      `yaml:"pdf"`
	Cache    CacheConfig    `yaml:"cache"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	LLM      LLMConfig      `yaml:"llm"`
	Log      LogConfig      `yaml:"log"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled       bool          `yaml:"enabled"`
	TesseractPath string        `yaml:"tesseract_path"`
	Lang          string        `yaml:"lang"`
	TessdataDir   string        `yaml:"tessdata_dir"`
	PSM           int           `yaml:"psm"`
	Timeout       time.Duration `yaml:"timeout"`
}

// PDFConfig holds PDF reader configuration
type PDFConfig struct {
	MinTextForOCR int `yaml:"min_text_for_ocr"`
}

// CacheConfig holds extraction cache configuration
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// PipelineConfig holds aggregator configuration
type PipelineConfig struct {
	Workers        int   `yaml:"workers"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	Temperature  float32       `yaml:"temperature"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
	Organization string        `yaml:"organization"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" | "text"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Enabled:       true,
			TesseractPath: "tesseract",
			Lang:          "vie",
			Timeout:       2 * time.Minute,
		},
		PDF: PDFConfig{
			MinTextForOCR: 20,
		},
		Cache: CacheConfig{
			Capacity: 50,
		},
		Pipeline: PipelineConfig{
			Workers:        1,
			MaxUploadBytes: 200 << 20,
		},
		LLM: LLMConfig{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-3.5-turbo",
			Temperature:  0.7,
			MaxTokens:    1024,
			Timeout:      60 * time.Second,
			Organization: "Hai Phong University of Medicine and Pharmacy",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig builds configuration from defaults, then the optional YAML file at
// path, then environment variables. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse config file %s", path), err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OCR.Enabled = getEnvAsBool("OCR_ENABLED", c.OCR.Enabled)
	c.OCR.TesseractPath = getEnv("OCR_TESSERACT_PATH", c.OCR.TesseractPath)
	c.OCR.Lang = getEnv("OCR_LANG", c.OCR.Lang)
	c.OCR.TessdataDir = getEnv("OCR_TESSDATA_DIR", c.OCR.TessdataDir)
	c.OCR.PSM = getEnvAsInt("OCR_PSM", c.OCR.PSM)
	c.OCR.Timeout = getEnvAsDuration("OCR_TIMEOUT", c.OCR.Timeout)

	c.PDF.MinTextForOCR = getEnvAsInt("PDF_MIN_TEXT_FOR_OCR", c.PDF.MinTextForOCR)
	c.Cache.Capacity = getEnvAsInt("CACHE_CAPACITY", c.Cache.Capacity)
	c.Pipeline.Workers = getEnvAsInt("PIPELINE_WORKERS", c.Pipeline.Workers)
	c.Pipeline.MaxUploadBytes = getEnvAsInt64("MAX_UPLOAD_BYTES", c.Pipeline.MaxUploadBytes)

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.LLM.Temperature = getEnvAsFloat32("OPENAI_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("OPENAI_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", c.LLM.Timeout)
	c.LLM.Organization = getEnv("ASSISTANT_ORGANIZATION", c.LLM.Organization)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.OCR.Enabled {
		if strings.TrimSpace(c.OCR.TesseractPath) == "" {
			return NewAppError("CONFIG_ERROR", "OCR_TESSERACT_PATH is required when OCR is enabled", ErrInvalidInput)
		}
		if strings.TrimSpace(c.OCR.Lang) == "" {
			return NewAppError("CONFIG_ERROR", "OCR_LANG is required when OCR is enabled", ErrInvalidInput)
		}
	}
	if c.PDF.MinTextForOCR < 0 {
		return NewAppError("CONFIG_ERROR", "PDF_MIN_TEXT_FOR_OCR must not be negative", ErrInvalidInput)
	}
	if c.Cache.Capacity <= 0 {
		return NewAppError("CONFIG_ERROR", "CACHE_CAPACITY must be positive", ErrInvalidInput)
	}
	if c.Pipeline.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be positive", ErrInvalidInput)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("LOG_FORMAT %q is not one of json|text", c.Log.Format), ErrInvalidInput)
	}
	return nil
}

// ValidateLLM checks the settings needed to answer questions.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_MODEL is required", ErrInvalidInput)
	}
	return nil
}
