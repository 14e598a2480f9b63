package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"menuscan/internal/auth"
	"menuscan/internal/extraction"
	"menuscan/internal/scan"
	"menuscan/internal/search"

	"github.com/gin-gonic/gin"
)

type staticOCR struct{ text string }

func (s staticOCR) ExtractText(context.Context, []byte, string) (string, error) {
	return s.text, nil
}

type staticModel struct{ output string }

func (s staticModel) Structure(context.Context, string) (string, error) {
	return s.output, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenManager("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	repo := scan.NewInMemoryRepository()
	scans := scan.NewService(repo, nil, log)
	pipeline := extraction.NewPipeline(
		staticOCR{text: "Soup - $5\nIngredients: tomato, basil"},
		staticModel{output: `{"menu_items": [{"dish_name": "Soup", "price": 5, "ingredients": ["tomato", "basil"]}]}`},
		scans,
		extraction.Options{},
		log,
	)

	r := NewRouter(Deps{
		Extraction:  extraction.NewHandler(pipeline, 0),
		Search:      search.NewHandler(search.NewService(repo, log)),
		Scans:       scan.NewHandler(scans),
		Tokens:      tokens,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return r, tokens
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestScansRequireUser(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/scans", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAnalyzeThenHistoryAndSearch(t *testing.T) {
	r, tokens := newTestRouter(t)
	token, _ := tokens.GenerateToken("user-42", "u@example.com")

	send := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send(http.MethodPost, "/analyze-menu", `{"text": "Soup - $5\nIngredients: tomato, basil"}`); w.Code != http.StatusOK {
		t.Fatalf("analyze: expected 200, got %d %s", w.Code, w.Body)
	}

	history := send(http.MethodGet, "/scans", "")
	if history.Code != http.StatusOK || !strings.Contains(history.Body.String(), `"item_count":1`) {
		t.Fatalf("expected saved scan in history, got %d %s", history.Code, history.Body)
	}

	results := send(http.MethodPost, "/search", `{"searchType": "ingredients", "ingredients": ["Basil"]}`)
	if results.Code != http.StatusOK || !strings.Contains(results.Body.String(), `"dish_name":"Soup"`) {
		t.Fatalf("expected Soup in search results, got %d %s", results.Code, results.Body)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
