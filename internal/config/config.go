package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port   string `mapstructure:"port"`
	AppEnv string `mapstructure:"app_env"`

	DatabaseURL string `mapstructure:"database_url"`
	JWTSecret   string `mapstructure:"jwt_secret"`

	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiModel   string `mapstructure:"gemini_model"`
	GeminiBaseURL string `mapstructure:"gemini_base_url"`

	OCRProvider         string `mapstructure:"ocr_provider"`
	StructuringProvider string `mapstructure:"structuring_provider"`
	HFAPIToken          string `mapstructure:"hf_api_token"`
	HFModelURL          string `mapstructure:"hf_model_url"`
	TesseractBinary     string `mapstructure:"tesseract_binary"`
	AWSRegion           string `mapstructure:"aws_region"`

	R2Endpoint      string `mapstructure:"r2_endpoint"`
	R2AccessKey     string `mapstructure:"r2_access_key"`
	R2SecretKey     string `mapstructure:"r2_secret_key"`
	R2BucketName    string `mapstructure:"r2_bucket_name"`
	R2PublicBaseURL string `mapstructure:"r2_public_base_url"`

	ModelCallTimeout time.Duration `mapstructure:"model_call_timeout"`
	OCRMinTextLength int           `mapstructure:"ocr_min_text_length"`
	OCRMaxTextLength int           `mapstructure:"ocr_max_text_length"`
	MaxMenuItems     int           `mapstructure:"max_menu_items"`
	MaxUploadBytes   int64         `mapstructure:"max_upload_bytes"`

	CORSOrigins []string `mapstructure:"cors_origins"`
}

const (
	ProviderGemini      = "gemini"
	ProviderRekognition = "rekognition"
	ProviderTesseract   = "tesseract"
	ProviderHuggingFace = "huggingface"
)

var defaults = map[string]any{
	"port":                 "8000",
	"app_env":              "development",
	"database_url":         "",
	"jwt_secret":           "",
	"gemini_api_key":       "",
	"gemini_model":         "gemini-1.5-flash",
	"gemini_base_url":      "",
	"ocr_provider":         ProviderGemini,
	"structuring_provider": ProviderGemini,
	"hf_api_token":         "",
	"hf_model_url":         "",
	"tesseract_binary":     "tesseract",
	"aws_region":           "us-east-1",
	"r2_endpoint":          "",
	"r2_access_key":        "",
	"r2_secret_key":        "",
	"r2_bucket_name":       "",
	"r2_public_base_url":   "",
	"model_call_timeout":   "45s",
	"ocr_min_text_length":  10,
	"ocr_max_text_length":  2000,
	"max_menu_items":       25,
	"max_upload_bytes":     10 << 20,
	"cors_origins":         "http://localhost:3000,http://localhost:5173",
}

// Load reads configuration from the environment. Outside production a
// local .env file is loaded first.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.OCRProvider = strings.ToLower(strings.TrimSpace(cfg.OCRProvider))
	cfg.StructuringProvider = strings.ToLower(strings.TrimSpace(cfg.StructuringProvider))
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.OCRProvider {
	case ProviderGemini, ProviderRekognition, ProviderTesseract:
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider)
	}
	switch c.StructuringProvider {
	case ProviderGemini, ProviderHuggingFace:
	default:
		return fmt.Errorf("unknown STRUCTURING_PROVIDER %q", c.StructuringProvider)
	}

	var missing []string
	if c.GeminiAPIKey == "" && (c.OCRProvider == ProviderGemini || c.StructuringProvider == ProviderGemini) {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.HFAPIToken == "" && c.StructuringProvider == ProviderHuggingFace {
		missing = append(missing, "HF_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}

	if c.ModelCallTimeout <= 0 {
		return fmt.Errorf("MODEL_CALL_TIMEOUT must be positive")
	}
	if c.MaxMenuItems <= 0 {
		return fmt.Errorf("MAX_MENU_ITEMS must be positive")
	}
	return nil
}

// R2Enabled reports whether every R2 setting is present.
func (c *Config) R2Enabled() bool {
	return c.R2Endpoint != "" &&
		c.R2AccessKey != "" &&
		c.R2SecretKey != "" &&
		c.R2BucketName != ""
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
