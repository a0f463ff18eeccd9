package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/deb-sahu/docu-query/internal/infrastructure/resilience"
)

// Publisher emits document lifecycle events on <prefix>.indexed,
// <prefix>.deleted and <prefix>.cleared. Publishing is best-effort from the
// caller's point of view; retries and the breaker live here.
type Publisher struct {
	conn     *nats.Conn
	prefix   string
	executor *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, subjectPrefix string) (*Publisher, error) {
	return NewWithOptions(url, subjectPrefix, Options{})
}

func NewWithOptions(url, subjectPrefix string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	if subjectPrefix == "" {
		subjectPrefix = "documents"
	}

	conn, err := nats.Connect(
		url,
		nats.Name("docu-query"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats reconnected: %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{
		conn:     conn,
		prefix:   subjectPrefix,
		executor: options.ResilienceExecutor,
	}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type lifecycleEvent struct {
	Event      string    `json:"event"`
	DocumentID string    `json:"doc_id,omitempty"`
	ChunkCount int       `json:"chunk_count,omitempty"`
	Count      int       `json:"count,omitempty"`
	At         time.Time `json:"at"`
}

func (p *Publisher) DocumentIndexed(ctx context.Context, id string, chunkCount int) error {
	return p.publish(ctx, "indexed", lifecycleEvent{
		Event:      "document.indexed",
		DocumentID: id,
		ChunkCount: chunkCount,
		At:         time.Now().UTC(),
	})
}

func (p *Publisher) DocumentDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, "deleted", lifecycleEvent{
		Event:      "document.deleted",
		DocumentID: id,
		At:         time.Now().UTC(),
	})
}

func (p *Publisher) DocumentsCleared(ctx context.Context, count int) error {
	return p.publish(ctx, "cleared", lifecycleEvent{
		Event: "documents.cleared",
		Count: count,
		At:    time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, suffix string, event lifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := p.prefix + "." + suffix

	call := func(_ context.Context) error {
		if err := p.conn.Publish(subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}
	if p.executor != nil {
		return p.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	}
	return call(ctx)
}
