// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/logging"
	"github.com/tomtom215/skillbridge/internal/metrics"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus is closed")

const breakerName = "event-bus"

// Bus publishes domain events on a watermill publisher.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	cb         *gobreaker.CircuitBreaker[struct{}]
	logger     zerolog.Logger
	now        func() time.Time

	mu      sync.RWMutex
	closed  bool
	closers []func(context.Context) error
}

// NewBus wraps publisher with a circuit breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(publisher message.Publisher, cfg Config, logger zerolog.Logger) *Bus {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	log := logger.With().Str("component", "events").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("event bus circuit breaker state change")
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			switch to {
			case gobreaker.StateClosed:
				metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
			case gobreaker.StateHalfOpen:
				metrics.CircuitBreakerState.WithLabelValues(name).Set(1)
			case gobreaker.StateOpen:
				metrics.CircuitBreakerState.WithLabelValues(name).Set(2)
			}
		},
	})

	return &Bus{
		publisher: publisher,
		cb:        cb,
		logger:    log,
		now:       time.Now,
	}
}

// NewChannelBus returns a bus over an in-process gochannel. The channel is
// also exposed through Subscriber.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewChannelBus(logger zerolog.Logger) *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logging.NewWatermillAdapter(logger))
	b := NewBus(ch, DefaultConfig(), logger)
	b.subscriber = ch
	b.closers = append(b.closers, func(context.Context) error { return ch.Close() })
	return b
}

// Open builds the bus described by cfg. With NATS disabled it returns a
// channel bus. Otherwise it starts the embedded server when configured,
// ensures the stream and connects a JetStream publisher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Bus, error) {
	if !cfg.Enabled {
		logger.Info().Msg("NATS disabled, using in-process event bus")
		return NewChannelBus(logger), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("event bus config: %w", err)
	}

	var closers []func(context.Context) error
	fail := func(err error) (*Bus, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i](context.Background()) //nolint:errcheck // best effort unwind
		}
		return nil, err
	}

	url := cfg.URL
	if cfg.Embedded {
		srv, err := NewEmbeddedServer(&cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, srv.Shutdown)
		url = srv.ClientURL()
		logger.Info().Str("url", url).Msg("embedded NATS server started")
	}

	nc, err := natsgo.Connect(url,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return fail(fmt.Errorf("connect to NATS: %w", err))
	}
	closers = append(closers, func(context.Context) error { nc.Close(); return nil })

	js, err := jetstream.New(nc)
	if err != nil {
		return fail(fmt.Errorf("create JetStream context: %w", err))
	}
	initializer, err := NewStreamInitializer(js, &cfg)
	if err != nil {
		return fail(err)
	}
	if _, err := initializer.EnsureStream(ctx); err != nil {
		return fail(fmt.Errorf("ensure stream: %w", err))
	}

	wmLogger := logging.NewWatermillAdapter(logger.With().Str("component", "watermill").Logger())
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOptions(&cfg, wmLogger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wmLogger)
	if err != nil {
		return fail(fmt.Errorf("create watermill publisher: %w", err))
	}
	closers = append(closers, func(context.Context) error { return pub.Close() })

	b := NewBus(pub, cfg, logger)
	b.closers = closers
	logger.Info().Str("url", url).Str("stream", cfg.StreamName).Msg("NATS event bus ready")
	return b, nil
}

func natsOptions(cfg *Config, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// Subscriber returns the in-process subscriber of a channel bus, or nil.
func (b *Bus) Subscriber() message.Subscriber {
	return b.subscriber
}

// State returns the breaker state name.
func (b *Bus) State() string {
	return b.cb.State().String()
}

// Publish encodes payload and publishes it under id. The id doubles as the
// JetStream dedup key.
func (b *Bus) Publish(ctx context.Context, topic, id string, payload interface{}) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	data, err := Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(id, data)
	msg.SetContext(ctx)
	msg.Metadata.Set(natsgo.MsgIdHdr, id)
	msg.Metadata.Set("event_type", topic)
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		msg.Metadata.Set("request_id", rid)
	}

	_, err = b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.publisher.Publish(topic, msg)
	})
	metrics.RecordEventPublished(topic, err)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return fmt.Errorf("publish %s: event bus unavailable: %w", topic, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return nil
}

// emit publishes and logs failures instead of returning them.
func (b *Bus) emit(ctx context.Context, topic, id string, payload interface{}) {
	if err := b.Publish(ctx, topic, id, payload); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("event_id", id).Msg("event publish failed")
	}
}

// RankingServed publishes a ranking.served event.
func (b *Bus) RankingServed(ctx context.Context, profile string, actorID int, res *recommend.Result) {
	correlation := logging.CorrelationIDFromContext(ctx)
	if correlation == "" {
		correlation = logging.RequestIDFromContext(ctx)
	}
	ev := NewRankingServed(profile, actorID, res, correlation, b.now())
	b.emit(ctx, TopicRankingServed, ev.EventID, ev)
}

// FraudAssessed publishes a fraud.assessed event.
func (b *Bus) FraudAssessed(ctx context.Context, a *fraud.Assessment) {
	ev := &FraudAssessed{
		Header:     newHeader(logging.RequestIDFromContext(ctx), b.now()),
		Assessment: a,
	}
	b.emit(ctx, TopicFraudAssessed, ev.EventID, ev)
}

// CatalogRefreshed publishes a catalog.refreshed event. Its signature
// matches recommend.SnapshotStore.OnRefresh.
func (b *Bus) CatalogRefreshed(snap *recommend.Snapshot) {
	ev := NewCatalogRefreshed(snap, b.now())
	b.emit(context.Background(), TopicCatalogRefreshed, ev.EventID, ev)
}

// Close shuts the publisher, connection and embedded server down in
// reverse order of creation.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	closers := b.closers
	b.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
