package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps interactions with the generative language API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping checks if the remote service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ai service returned status %d", resp.StatusCode)
	}
	return nil
}

// Suggestion is a proposed translation for one word form.
type Suggestion struct {
	TaiKhamyang   string `json:"taiKhamyang"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
}

// SuggestTranslation asks the model for a Tai Khamyang rendering of the
// given English and Assamese forms.
func (c *Client) SuggestTranslation(ctx context.Context, english, assamese string) (*Suggestion, error) {
	payload := map[string]string{"english": english, "assamese": assamese}
	resp, err := c.postJSON(ctx, "/v1/translate", payload)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("translate failed with status %d", resp.StatusCode)
	}
	var out Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	return &out, nil
}

// GenerateImage produces an illustration for a word. The response body
// holds raw image bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.postJSON(ctx, "/v1/images", map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("image generation failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// SynthesizeSpeech renders a pronunciation recording for a word. The
// response body holds raw audio bytes.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.postJSON(ctx, "/v1/speech", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("speech synthesis failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.httpClient.Do(req)
}
