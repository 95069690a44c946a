package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// apiProvider calls a remote embedding API (e.g. an OpenAI-compatible
// /v1/embeddings endpoint) over HTTPS. Kept separate from localProvider so
// the auth header and base URL handling don't leak into the local-process
// path.
type apiProvider struct {
	endpoint string
	apiKey   string
	dim      int
	client   *http.Client
}

func newAPIProvider(endpoint, apiKey string, dim int) *apiProvider {
	return &apiProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		dim:      dim,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type apiEmbedRequest struct {
	Input []string `json:"input"`
}

type apiEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *apiProvider) Embed(ctx context.Context, texts []string, _ Mode) ([][]float32, error) {
	body, err := json.Marshal(apiEmbedRequest{Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding api returned status %d", resp.StatusCode)
	}

	var out apiEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}

	vectors := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		normalize(d.Embedding)
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func (p *apiProvider) Dimensions() int { return p.dim }

func (p *apiProvider) Close() error { return nil }
