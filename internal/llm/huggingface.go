package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHuggingFaceURL = "https://router.huggingface.co/hf-inference/models/mistralai/Mistral-7B-Instruct-v0.2"

// HuggingFaceClient runs the structuring call against a hosted
// text-generation model.
type HuggingFaceClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewHuggingFaceClient(token, modelURL string, timeout time.Duration) *HuggingFaceClient {
	if modelURL == "" {
		modelURL = defaultHuggingFaceURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HuggingFaceClient{
		token:   token,
		baseURL: modelURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HuggingFaceClient) Structure(ctx context.Context, prompt string) (string, error) {
	if c.token == "" {
		return "", errors.New("missing HF_API_TOKEN")
	}

	payload, err := json.Marshal(map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens":   3000,
			"temperature":      0.2,
			"return_full_text": false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HF request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HF API returned status %d: %s", resp.StatusCode, string(body))
	}

	var hfResp []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &hfResp); err != nil {
		return "", fmt.Errorf("failed to parse HF response: %w", err)
	}
	if len(hfResp) == 0 {
		return "", errors.New("empty HF response")
	}

	// Some deployments ignore return_full_text and echo the prompt.
	return strings.TrimPrefix(hfResp[0].GeneratedText, prompt), nil
}
