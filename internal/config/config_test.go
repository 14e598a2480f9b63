package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "key")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.ModelCallTimeout != 45*time.Second {
		t.Fatalf("expected 45s timeout, got %v", cfg.ModelCallTimeout)
	}
	if cfg.OCRMinTextLength != 10 || cfg.OCRMaxTextLength != 2000 || cfg.MaxMenuItems != 25 {
		t.Fatalf("unexpected extraction limits: %+v", cfg)
	}
	if cfg.OCRProvider != ProviderGemini || cfg.StructuringProvider != ProviderGemini {
		t.Fatalf("unexpected providers %q/%q", cfg.OCRProvider, cfg.StructuringProvider)
	}
	if cfg.R2Enabled() {
		t.Fatal("expected R2 to be disabled without credentials")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_CALL_TIMEOUT", "5s")
	t.Setenv("MAX_MENU_ITEMS", "3")
	t.Setenv("OCR_PROVIDER", " Rekognition ")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.ModelCallTimeout != 5*time.Second || cfg.MaxMenuItems != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.OCRProvider != ProviderRekognition {
		t.Fatalf("expected rekognition, got %q", cfg.OCRProvider)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("expected %v, got %v", want, cfg.CORSOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY in error, got %v", err)
	}
}

func TestLoad_HuggingFaceNeedsToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STRUCTURING_PROVIDER", "huggingface")
	t.Setenv("HF_API_TOKEN", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "HF_API_TOKEN") {
		t.Fatalf("expected HF_API_TOKEN error, got %v", err)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("OCR_PROVIDER", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
