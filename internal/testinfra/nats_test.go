// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/events"
	"github.com/tomtom215/skillbridge/internal/fraud"
)

// TestEventBus_ExternalNATS publishes through the bus and reads the stream
// back with a plain JetStream client.
func TestEventBus_ExternalNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	nc, err := NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create NATS container: %v", err)
	}
	defer CleanupContainer(t, ctx, nc.Container)

	cfg := events.DefaultConfig()
	cfg.Enabled = true
	cfg.Embedded = false
	cfg.URL = nc.URL
	cfg.StreamName = "SKILLBRIDGE_IT"

	bus, err := events.Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() {
		if err := bus.Close(context.Background()); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	if err := bus.Publish(ctx, events.TopicFraudAssessed, "it-1", &events.FraudAssessed{
		Assessment: &fraud.Assessment{UserID: 9, FraudScore: 0.8, Status: fraud.StatusFlagged},
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// Same message id inside the duplicate window is dropped by JetStream.
	if err := bus.Publish(ctx, events.TopicFraudAssessed, "it-1", &events.FraudAssessed{}); err != nil {
		t.Fatalf("Publish duplicate: %v", err)
	}
	if bus.State() != "closed" {
		t.Errorf("breaker state = %q, want closed", bus.State())
	}

	conn, err := natsgo.Connect(nc.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	js, err := jetstream.New(conn)
	if err != nil {
		t.Fatal(err)
	}
	stream, err := js.Stream(ctx, cfg.StreamName)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	info, err := stream.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.State.Msgs != 1 {
		t.Errorf("stream holds %d messages, want 1", info.State.Msgs)
	}

	msg, err := stream.GetLastMsgForSubject(ctx, events.TopicFraudAssessed)
	if err != nil {
		t.Fatalf("GetLastMsgForSubject: %v", err)
	}
	var ev events.FraudAssessed
	if err := events.Unmarshal(msg.Data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Assessment == nil || ev.Assessment.UserID != 9 {
		t.Errorf("event = %+v", ev)
	}
}
