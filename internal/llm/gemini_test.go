package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeCandidate(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
}

func TestGemini_ExtractTextSendsInlineImage(t *testing.T) {
	var got map[string]any
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeCandidate(w, "SOUP 5")
	})

	text, err := client.ExtractText(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "SOUP 5" {
		t.Fatalf("expected SOUP 5, got %q", text)
	}

	contents := got["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
	if inline["mime_type"] != "image/jpeg" || inline["data"] != "/9g=" {
		t.Fatalf("unexpected inline data %v", inline)
	}
}

func TestGemini_StructureUsesLowTemperature(t *testing.T) {
	var got map[string]any
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeCandidate(w, `{"menu_items": []}`)
	})

	out, err := client.Structure(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"menu_items": []}` {
		t.Fatalf("unexpected output %q", out)
	}
	gen := got["generationConfig"].(map[string]any)
	if gen["temperature"].(float64) > 0.3 {
		t.Fatalf("expected low temperature, got %v", gen["temperature"])
	}
}

func TestGemini_ErrorStatus(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Structure(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGemini_EmptyCandidates(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	if _, err := client.Structure(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}
