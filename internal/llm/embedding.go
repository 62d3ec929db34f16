package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
)

// Embedder computes one embedding vector for a single model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// EmbeddingProvider tries an ordered list of embedders, falling through to
// the next on a "model not found" failure and propagating any other error
// (spec: "Ordered model fallback list. On 404/'not found' from a model,
// try the next; on other errors, propagate").
//
// Vector dimensionality is fixed per deployment (spec §3.2/§9): the
// provider pins the dimension of the first vector it ever returns and
// fails loudly, rather than silently corrupting SearchByEmbedding's
// cosine comparisons, if a later call (typically a mid-deployment
// provider switch) returns a vector of a different width.
type EmbeddingProvider struct {
	embedders []Embedder

	mu  sync.Mutex
	dim int
}

func NewEmbeddingProvider(embedders ...Embedder) *EmbeddingProvider {
	return &EmbeddingProvider{embedders: embedders}
}

// Embed returns the vector and the name of the model that produced it.
// The news ingestor discards the model name; it is not stored with the
// vector.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, string, error) {
	var lastErr error
	for _, e := range p.embedders {
		vec, err := e.Embed(ctx, text)
		if err == nil {
			if dimErr := p.checkDimension(e.ModelName(), len(vec)); dimErr != nil {
				return nil, "", dimErr
			}
			return vec, e.ModelName(), nil
		}
		if isModelNotFound(err) {
			lastErr = err
			continue
		}
		return nil, "", err
	}
	return nil, "", fmt.Errorf("llm: all embedding models exhausted: %w", lastErr)
}

// checkDimension pins the deployment's expected vector width on first use
// and rejects any later vector of a different width as a programmer error
// (spec §7 "dimension mismatch in embedding — fail loudly").
func (p *EmbeddingProvider) checkDimension(model string, got int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dim == 0 {
		p.dim = got
		return nil
	}
	if got != p.dim {
		return apperr.NewInvariantViolation("embedding_dimension_mismatch",
			fmt.Sprintf("model %q returned a %d-dim vector, deployment is pinned to %d; switching embedding providers requires a reindex", model, got, p.dim))
	}
	return nil
}

func isModelNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}

// GeminiEmbedder calls Gemini's embedContent endpoint.
type GeminiEmbedder struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiEmbedder(apiKey, model string, timeout time.Duration) *GeminiEmbedder {
	return &GeminiEmbedder{apiKey: apiKey, model: model, baseURL: geminiBaseURL, httpClient: &http.Client{Timeout: timeout}}
}

func (e *GeminiEmbedder) ModelName() string { return e.model }

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	type part struct {
		Text string `json:"text"`
	}
	body := struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	}{}
	body.Content.Parts = []part{{Text: text}}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", e.baseURL, e.model, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini embed: api error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gemini embed: unmarshal response: %w", err)
	}
	return parsed.Embedding.Values, nil
}

// OllamaEmbedder calls a local Ollama server's /api/embeddings endpoint.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaEmbedder(baseURL, model string, timeout time.Duration) *OllamaEmbedder {
	return &OllamaEmbedder{baseURL: baseURL, model: model, httpClient: &http.Client{Timeout: timeout}}
}

func (e *OllamaEmbedder) ModelName() string { return e.model }

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body := struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}{Model: e.model, Prompt: text}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ollama embed: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed: api error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("ollama embed: unmarshal response: %w", err)
	}
	return parsed.Embedding, nil
}
