// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package embedding

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("Go, C++ and C#; Node.js developer.")
	want := []string{"go", "c++", "and", "c#", "node.js", "developer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestHashingProvider(t *testing.T) {
	t.Parallel()

	p := NewHashingProvider(128)
	vecs, err := p.Embed(context.Background(), []string{
		"golang backend developer",
		"golang backend developer",
		"backend developer golang",
		"watercolor painting",
		"",
	})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	for i, v := range vecs {
		if len(v) != 128 {
			t.Fatalf("vector %d has %d values", i, len(v))
		}
	}

	if !reflect.DeepEqual(vecs[0], vecs[1]) {
		t.Error("identical text produced different vectors")
	}
	if sim := cosine(vecs[0], vecs[0]); math.Abs(sim-1) > 1e-6 {
		t.Errorf("self similarity = %f, want 1", sim)
	}
	if related, unrelated := cosine(vecs[0], vecs[2]), cosine(vecs[0], vecs[3]); related <= unrelated {
		t.Errorf("related %f <= unrelated %f", related, unrelated)
	}
	for _, x := range vecs[4] {
		if x != 0 {
			t.Fatal("empty text produced a non-zero vector")
		}
	}
}

func TestHashingProvider_DefaultDimension(t *testing.T) {
	t.Parallel()

	if d := NewHashingProvider(0).Dimension(); d != DefaultHashingDimension {
		t.Errorf("Dimension() = %d, want %d", d, DefaultHashingDimension)
	}
}

// countingProvider counts texts it embeds and can be made to fail.
type countingProvider struct {
	inner Provider
	fail  atomic.Bool
	calls atomic.Int32
	mu    sync.Mutex
	seen  []string
}

func (c *countingProvider) Name() string   { return "counting" }
func (c *countingProvider) Dimension() int { return c.inner.Dimension() }

func (c *countingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.seen = append(c.seen, texts...)
	c.mu.Unlock()
	if c.fail.Load() {
		return nil, errors.New("backend down")
	}
	return c.inner.Embed(ctx, texts)
}

func TestCachedProvider_MemoryTier(t *testing.T) {
	t.Parallel()

	backend := &countingProvider{inner: NewHashingProvider(32)}
	p := NewCachedProvider(backend, 100, time.Minute, nil, zerolog.Nop())

	first, err := p.Embed(context.Background(), []string{"go", "sql", "go"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !reflect.DeepEqual(first[0], first[2]) {
		t.Error("duplicate texts got different vectors")
	}
	if got := len(backend.seen); got != 2 {
		t.Errorf("backend saw %d texts, want 2 distinct", got)
	}

	second, err := p.Embed(context.Background(), []string{"sql", "go"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if backend.calls.Load() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls.Load())
	}
	if !reflect.DeepEqual(second[0], first[1]) {
		t.Error("cached vector differs from original")
	}
	if s := p.Stats(); s.Hits != 2 {
		t.Errorf("memory hits = %d, want 2", s.Hits)
	}
}

func TestCachedProvider_BadgerTier(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerStore(":memory:", 0)
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer store.Close()

	backend := &countingProvider{inner: NewHashingProvider(16)}
	warm := NewCachedProvider(backend, 10, time.Minute, store, zerolog.Nop())
	want, err := warm.Embed(context.Background(), []string{"rust", "kotlin"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	// A fresh memory tier over the same store must not reach the backend.
	backend.fail.Store(true)
	cold := NewCachedProvider(backend, 10, time.Minute, store, zerolog.Nop())
	got, err := cold.Embed(context.Background(), []string{"kotlin", "rust"})
	if err != nil {
		t.Fatalf("Embed from store: %v", err)
	}
	if !reflect.DeepEqual(got[0], want[1]) || !reflect.DeepEqual(got[1], want[0]) {
		t.Error("persisted vectors differ from originals")
	}
	if backend.calls.Load() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls.Load())
	}
}

func TestCachedProvider_PropagatesErrors(t *testing.T) {
	t.Parallel()

	backend := &countingProvider{inner: NewHashingProvider(8)}
	backend.fail.Store(true)
	p := NewCachedProvider(backend, 10, time.Minute, nil, zerolog.Nop())

	if _, err := p.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatal("Embed() error = nil, want backend error")
	}
}

func TestResilientProvider_BreakerOpens(t *testing.T) {
	t.Parallel()

	backend := &countingProvider{inner: NewHashingProvider(8)}
	backend.fail.Store(true)
	p := NewResilientProvider(backend, ResilienceConfig{FailureThreshold: 2, Timeout: time.Minute}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := p.Embed(context.Background(), []string{"x"}); err == nil {
			t.Fatalf("call %d: error = nil", i)
		}
	}
	if p.State() != "open" {
		t.Fatalf("State() = %q, want open", p.State())
	}

	_, err := p.Embed(context.Background(), []string{"x"})
	if err == nil || !strings.Contains(err.Error(), "unavailable") {
		t.Errorf("err = %v, want breaker rejection", err)
	}
	if backend.calls.Load() != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls.Load())
	}
}

func TestResilientProvider_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	p := NewResilientProvider(NewHashingProvider(8), ResilienceConfig{RequestsPerSecond: 0.001, Burst: 1}, zerolog.Nop())

	if _, err := p.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Embed(ctx, []string{"b"}); err == nil {
		t.Error("second call error = nil, want rate limit error")
	}
}

// fakeEmbedAPI returns vectors of a configured length.
type fakeEmbedAPI struct {
	dim     int
	err     error
	calls   int
	lastCfg *genai.EmbedContentConfig
	batches []int
}

func (f *fakeEmbedAPI) EmbedContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.calls++
	f.lastCfg = cfg
	f.batches = append(f.batches, len(contents))
	if f.err != nil {
		return nil, f.err
	}
	resp := &genai.EmbedContentResponse{}
	for i := range contents {
		vals := make([]float32, f.dim)
		vals[0] = float32(i + 1)
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: vals})
	}
	return resp, nil
}

func TestGeminiProvider_Batches(t *testing.T) {
	t.Parallel()

	api := &fakeEmbedAPI{dim: 4}
	p := newGeminiProvider(api, "", 4, 2)

	vecs, err := p.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("len = %d, want 3", len(vecs))
	}
	if !reflect.DeepEqual(api.batches, []int{2, 1}) {
		t.Errorf("batches = %v, want [2 1]", api.batches)
	}
	if api.lastCfg.OutputDimensionality == nil || *api.lastCfg.OutputDimensionality != 4 {
		t.Errorf("OutputDimensionality = %v, want 4", api.lastCfg.OutputDimensionality)
	}
	if p.Name() != "gemini:"+defaultGeminiModel {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestGeminiProvider_Errors(t *testing.T) {
	t.Parallel()

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		p := newGeminiProvider(&fakeEmbedAPI{dim: 4, err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}}, "m", 4, 10)
		_, err := p.Embed(context.Background(), []string{"a"})
		if err == nil || !strings.Contains(err.Error(), "429") {
			t.Errorf("err = %v, want 429 in message", err)
		}
	})

	t.Run("wrong dimension", func(t *testing.T) {
		t.Parallel()
		p := newGeminiProvider(&fakeEmbedAPI{dim: 3}, "m", 4, 10)
		if _, err := p.Embed(context.Background(), []string{"a"}); err == nil {
			t.Error("error = nil, want dimension error")
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()
		p := newGeminiProvider(&fakeEmbedAPI{dim: 4}, "m", 4, 10)
		if _, err := p.Embed(context.Background(), nil); !errors.Is(err, ErrEmptyBatch) {
			t.Errorf("err = %v, want ErrEmptyBatch", err)
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()
		if _, err := NewGeminiProvider(context.Background(), " ", "", 0, 0); err == nil {
			t.Error("error = nil, want api key error")
		}
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	p, closeFn, err := NewFromConfig(context.Background(), Config{Provider: ProviderHashing, Dimension: 64, BadgerPath: ":memory:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	if p.Dimension() != 64 || p.Name() != ProviderHashing {
		t.Errorf("provider = %s/%d", p.Name(), p.Dimension())
	}
	if _, err := p.Embed(context.Background(), []string{"hello"}); err != nil {
		t.Errorf("Embed: %v", err)
	}

	if _, _, err := NewFromConfig(context.Background(), Config{Provider: "word2vec"}, zerolog.Nop()); err == nil {
		t.Error("unknown provider accepted")
	}
}
