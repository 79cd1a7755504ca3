// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel     = "text-embedding-004"
	defaultGeminiDimension = 768

	// geminiMaxBatch is the API limit of contents per embed request.
	geminiMaxBatch = 100

	geminiTaskType = "SEMANTIC_SIMILARITY"
)

// embedContentAPI is the part of genai.Models the provider uses.
type embedContentAPI interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiProvider embeds texts with the Gemini embedding API.
type GeminiProvider struct {
	api       embedContentAPI
	model     string
	dim       int
	batchSize int
}

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string, dim, batchSize int) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiProvider(client.Models, model, dim, batchSize), nil
}

func newGeminiProvider(api embedContentAPI, model string, dim, batchSize int) *GeminiProvider {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	if dim <= 0 {
		dim = defaultGeminiDimension
	}
	if batchSize <= 0 || batchSize > geminiMaxBatch {
		batchSize = geminiMaxBatch
	}
	return &GeminiProvider{api: api, model: model, dim: dim, batchSize: batchSize}
}

func (g *GeminiProvider) Name() string   { return ProviderGemini + ":" + g.model }
func (g *GeminiProvider) Dimension() int { return g.dim }

// Embed splits texts into API-sized batches and checks every returned
// vector against the configured dimension.
func (g *GeminiProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}

	dim := int32(g.dim) //nolint:gosec // dimension is validated config, far below int32 range
	cfg := &genai.EmbedContentConfig{
		TaskType:             geminiTaskType,
		OutputDimensionality: &dim,
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: text}},
			})
		}

		resp, err := g.api.EmbedContent(ctx, g.model, contents, cfg)
		if err != nil {
			return nil, describeGeminiError(err)
		}
		if resp == nil || len(resp.Embeddings) != len(contents) {
			got := 0
			if resp != nil {
				got = len(resp.Embeddings)
			}
			return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", got, len(contents))
		}

		for i, e := range resp.Embeddings {
			if e == nil || len(e.Values) != g.dim {
				n := 0
				if e != nil {
					n = len(e.Values)
				}
				return nil, fmt.Errorf("gemini embedding %d has %d values, want %d", start+i, n, g.dim)
			}
			out = append(out, e.Values)
		}
	}
	return out, nil
}

func describeGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini embed: %d %s: %w", apiErr.Code, apiErr.Status, err)
	}
	return fmt.Errorf("gemini embed: %w", err)
}
