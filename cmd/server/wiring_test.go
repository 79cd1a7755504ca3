// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/catalog"
	"github.com/tomtom215/skillbridge/internal/config"
	"github.com/tomtom215/skillbridge/internal/embedding"
	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/marketplace"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

const testCatalogJSON = `{
  "projects": [
    {"id": 1, "title": "Go API", "description": "REST API in Go with PostgreSQL", "skills_required": ["go", "postgresql"], "category": "backend", "budget": 5000},
    {"id": 2, "title": "Landing page", "description": "Marketing site in React", "skills_required": ["react", "css"], "category": "frontend", "budget": 800}
  ],
  "mentors": [
    {"id": 1, "name": "Asha", "skills": ["go", "kubernetes"], "industry": "Tech", "experience_years": 10, "hourly_rate": 2000, "availability_hours_per_week": 10, "rating": 4.8, "bio": "Backend engineer"}
  ],
  "engagements": [
    {"actor_id": 7, "project_id": 1}
  ]
}`

// testConfig returns the settings the wiring reads, with zero overrides.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(testCatalogJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Logging: config.LoggingConfig{Level: "debug", Format: "console"},
		Ranking: config.RankingConfig{
			MaxK:          50,
			MaxCandidates: 1000,
			ScoreTimeout:  2 * time.Second,
		},
		Catalog: config.CatalogConfig{
			Source:         config.CatalogSourceFile,
			Path:           path,
			EmbedBatchSize: 8,
		},
		Fraud: config.FraudConfig{
			AnomalyWeight:    0.6,
			ClassifierWeight: 0.4,
			SuspiciousAt:     0.3,
			FlaggedAt:        0.7,
			AnomalyScale:     3,
			Intercept:        -4,
			Limits:           fraud.DefaultOptions().Limits,
		},
		NATS: config.NATSConfig{
			StreamName:    "SKILLBRIDGE",
			Subjects:      []string{"catalog.>"},
			RetentionDays: 2,
		},
	}
}

func TestLoggingConfig(t *testing.T) {
	t.Parallel()

	lc := loggingConfig(testConfig(t))
	if lc.Level != "debug" || lc.Format != "console" || !lc.Timestamp || lc.Output == nil {
		t.Errorf("loggingConfig() = %+v", lc)
	}
}

func TestEventsConfig(t *testing.T) {
	t.Parallel()

	ec := eventsConfig(testConfig(t))
	if ec.Enabled {
		t.Error("bus enabled without NATS_ENABLED")
	}
	if ec.MaxAge != 48*time.Hour {
		t.Errorf("MaxAge = %v, want 48h", ec.MaxAge)
	}
	if ec.MaxMemory == 0 || ec.MaxStore == 0 {
		t.Error("zero limits should keep the bus defaults")
	}
	if len(ec.Subjects) != 1 || ec.Subjects[0] != "catalog.>" {
		t.Errorf("Subjects = %v", ec.Subjects)
	}
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()

	rc := engineConfig(testConfig(t))
	if err := rc.Validate(); err != nil {
		t.Fatal(err)
	}
	if rc.Limits.MaxK != 50 || rc.Limits.MaxCandidates != 1000 || rc.Limits.ScoreTimeout != 2*time.Second {
		t.Errorf("limits = %+v", rc.Limits)
	}
}

func TestProjectOptions(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	if got, want := projectOptions(cfg), marketplace.DefaultProjectOptions(); got.DefaultK != want.DefaultK ||
		got.SemanticBlend != want.SemanticBlend || len(got.DefaultWeights) != len(want.DefaultWeights) {
		t.Errorf("zero overrides changed defaults: %+v", got)
	}

	cfg.Ranking.Projects = config.ProjectRankingConfig{
		Weights:        map[string]float64{marketplace.SignalContent: 1},
		DefaultK:       3,
		SemanticBlend:  0.5,
		AttributeBlend: 0.5,
	}
	opts := projectOptions(cfg)
	if opts.DefaultK != 3 || opts.SemanticBlend != 0.5 || opts.AttributeBlend != 0.5 {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if len(opts.DefaultWeights) != 1 || opts.DefaultWeights[marketplace.SignalContent] != 1 {
		t.Errorf("DefaultWeights = %v", opts.DefaultWeights)
	}

	cfg.Ranking.Projects.Weights[marketplace.SignalContent] = 2
	if opts.DefaultWeights[marketplace.SignalContent] != 1 {
		t.Error("weights map shared with config")
	}
}

func TestMentorOptions(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Ranking.Mentors = config.MentorRankingConfig{
		BudgetMin:  500,
		BudgetMax:  1500,
		HighRating: 4.0,
	}
	opts := mentorOptions(cfg)
	def := marketplace.DefaultMentorOptions()
	if opts.BudgetMin != 500 || opts.BudgetMax != 1500 || opts.HighRating != 4.0 {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if opts.AvailabilityHours != def.AvailabilityHours || opts.DefaultK != def.DefaultK {
		t.Errorf("unset fields changed: %+v", opts)
	}
	if len(opts.DefaultWeights) != len(def.DefaultWeights) {
		t.Errorf("DefaultWeights = %v", opts.DefaultWeights)
	}
}

func TestFraudModels(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		anomaly, classifier, err := fraudModels(testConfig(t))
		if err != nil {
			t.Fatal(err)
		}
		if anomaly.Baseline != fraud.DefaultBaseline() || anomaly.Scale != 3 {
			t.Errorf("anomaly = %+v", anomaly)
		}
		if classifier.Coefficients != fraud.DefaultLogisticModel().Coefficients || classifier.Intercept != -4 {
			t.Errorf("classifier = %+v", classifier)
		}
	})

	t.Run("custom baseline", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		cfg.Fraud.BaselineMean = []float64{1, 1, 1, 1, 1, 1, 1}
		cfg.Fraud.BaselineStdDev = []float64{2, 2, 2, 2, 2, 2, 2}
		cfg.Fraud.Coefficients = []float64{1, 0, 0, 0, 0, 0, 0}
		anomaly, classifier, err := fraudModels(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if anomaly.Baseline.StdDev[6] != 2 || classifier.Baseline != anomaly.Baseline {
			t.Errorf("baseline not shared: %+v / %+v", anomaly.Baseline, classifier.Baseline)
		}
		if classifier.Coefficients[0] != 1 || classifier.Coefficients[1] != 0 {
			t.Errorf("Coefficients = %v", classifier.Coefficients)
		}
	})

	t.Run("invalid baseline", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		cfg.Fraud.BaselineMean = []float64{1, 1, 1, 1, 1, 1, 1}
		cfg.Fraud.BaselineStdDev = []float64{1, 1, 1, 0, 1, 1, 1}
		if _, _, err := fraudModels(cfg); err == nil {
			t.Error("zero stddev accepted")
		}
	})
}

func TestDatasetSource(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	src, err := datasetSource(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*catalog.FileSource); !ok {
		t.Errorf("source = %T, want *catalog.FileSource", src)
	}

	cfg.Catalog.Source = config.CatalogSourceDuckDB
	if _, err := datasetSource(cfg, nil); err == nil {
		t.Error("duckdb source without database accepted")
	}
	cfg.Catalog.Source = "s3"
	if _, err := datasetSource(cfg, nil); err == nil {
		t.Error("unknown source accepted")
	}
}

func TestOpenDatabase_FileSource(t *testing.T) {
	t.Parallel()

	db, err := openDatabase(testConfig(t))
	if err != nil || db != nil {
		t.Errorf("openDatabase() = %v, %v; want nil, nil for file source", db, err)
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	rankings []string
	frauds   []*fraud.Assessment
	refresh  []int64
}

func (n *recordingNotifier) RankingServed(_ context.Context, profile string, _ int, _ *recommend.Result) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rankings = append(n.rankings, profile)
}

func (n *recordingNotifier) FraudAssessed(_ context.Context, a *fraud.Assessment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.frauds = append(n.frauds, a)
}

func (n *recordingNotifier) CatalogRefreshed(snap *recommend.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refresh = append(n.refresh, snap.Version)
}

func TestWiring_EndToEnd(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	emb := embedding.NewHashingProvider(32)

	ds, err := datasetSource(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	cats, err := newCatalogs(cfg, ds, emb, notifier.CatalogRefreshed, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if cats.Registry.Ready() {
		t.Fatal("registry ready before any refresh")
	}

	warmCatalogs(ctx, cats.Registry, zerolog.Nop())
	if !cats.Registry.Ready() {
		t.Fatalf("registry not ready after warm-up: %+v", cats.Registry.Statuses())
	}
	if len(notifier.refresh) != 2 {
		t.Errorf("refresh notifications = %v, want one per catalog", notifier.refresh)
	}

	svcs, err := newServices(cfg, cats, emb, notifier, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	rec, err := svcs.Projects.Recommend(ctx, &marketplace.ProjectQuery{
		UserID: 9,
		Skills: []string{"go", "postgresql"},
		K:      2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.ProjectIDs) == 0 || rec.ProjectIDs[0] != 1 {
		t.Errorf("ProjectIDs = %v, want project 1 first", rec.ProjectIDs)
	}

	match, err := svcs.Mentors.Match(ctx, &marketplace.MenteeProfile{
		UserID:        3,
		SkillsToLearn: []string{"go"},
		Industry:      "Tech",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(match.Mentors) != 1 || match.Mentors[0].ID != 1 {
		t.Errorf("mentors = %+v", match.Mentors)
	}

	a, err := svcs.Fraud.Assess(ctx, &fraud.Activity{
		UserID:              5,
		LoginsPerDay:        40,
		BidsPerDay:          80,
		BidToProjectRatio:   3,
		PaymentAmount:       90000,
		LoginTimeVariance:   20,
		IPAddressCount:      25,
		FailedLoginAttempts: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Status == fraud.StatusNormal {
		t.Errorf("status = %s, want non-normal", a.Status)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.rankings) != 2 {
		t.Errorf("ranking notifications = %v", notifier.rankings)
	}
	if len(notifier.frauds) != 1 || notifier.frauds[0].UserID != 5 {
		t.Errorf("fraud notifications = %+v", notifier.frauds)
	}
}
