package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// ollamaProvider talks to Ollama. Chat goes through the OpenAI-compatible
// endpoint; embeddings use the native /api/embed, which batches.
type ollamaProvider struct {
	base client
}

func (p *ollamaProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return p.base.chat(ctx, req)
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

func (p *ollamaProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	respBody, err := p.base.post(ctx, "/api/embed", ollamaEmbedRequest{
		Model: p.base.cfg.Model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	var resp ollamaEmbedResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding ollama embed response: %w", err)
	}

	result := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		result[i] = float64sToFloat32s(emb)
	}
	return result, nil
}

func float64sToFloat32s(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
