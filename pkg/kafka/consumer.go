package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a single topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Consumer reads one topic and hands each message to its handler, retrying
// with jittered backoff and finally routing to a DLQ topic when configured.
type Consumer struct {
	cfg      *ConsumerConfig
	reader   *kafka.Reader
	handler  MessageHandler
	dlq      *kafka.Writer
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConsumer creates a consumer for the handler's topic.
func NewConsumer(handler MessageHandler, opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:    "default",
		RetryMax:   3,
		BackoffMin: 50 * time.Millisecond,
		BackoffMax: 2 * time.Second,
		MinBytes:   1,
		MaxBytes:   10e6,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	c := &Consumer{
		cfg:      cfg,
		handler:  handler,
		stopChan: make(chan struct{}),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    handler.Topic(),
			GroupID:  cfg.GroupID,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
		}),
	}
	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}

	initConsumerMetricsOnce()
	return c, nil
}

// Start launches the read loop.
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.run()
}

// Stop shuts the consumer down, waiting for the in-flight message up to the
// context deadline.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		close(c.stopChan)

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("waiting for consumer stop: %w", ctx.Err())
		case <-done:
		}

		if err := c.reader.Close(); err != nil && stopErr == nil {
			stopErr = err
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil && stopErr == nil {
				stopErr = err
			}
		}
	})
	return stopErr
}

func (c *Consumer) run() {
	defer c.wg.Done()
	topic := c.handler.Topic()

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		msg, err := c.reader.ReadMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				observeConsumerError(topic, "read")
			}
			continue
		}

		c.process(topic, msg)
	}
}

func (c *Consumer) process(topic string, msg kafka.Message) {
	start := time.Now()

	var err error
	for attempt := 0; attempt <= c.cfg.RetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-c.stopChan:
				return
			}
		}
		if err = c.handler.Handle(context.Background(), msg.Value); err == nil {
			break
		}
	}

	result := "ok"
	if err != nil {
		result = "error"
		observeConsumerError(topic, "handle")
		if c.dlq != nil {
			dlqMsg := kafka.Message{Topic: c.cfg.DLQTopic, Key: msg.Key, Value: msg.Value}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if dlqErr := c.dlq.WriteMessages(ctx, dlqMsg); dlqErr != nil {
				observeConsumerError(topic, "dlq")
			}
			cancel()
		}
	}
	observeConsumerHandled(topic, result, time.Since(start))
}

// backoff returns an exponential delay with jitter, bounded by BackoffMax.
func (c *Consumer) backoff(attempt int) time.Duration {
	d := c.cfg.BackoffMin << uint(attempt-1)
	if d > c.cfg.BackoffMax {
		d = c.cfg.BackoffMax
	}
	jitter := time.Duration(rand.Int63n(int64(d)/2 + 1))
	return d/2 + jitter
}

var (
	consumerHandledTotal *prometheus.CounterVec
	consumerErrsTotal    *prometheus.CounterVec
	consumerLatencyHist  *prometheus.HistogramVec
	consumerOnce         = make(chan struct{}, 1)
)

func initConsumerMetricsOnce() {
	select {
	case consumerOnce <- struct{}{}:
		consumerHandledTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betforge_kafka_consumer_messages_total",
				Help: "Total messages handled",
			},
			[]string{"topic", "result"},
		)
		consumerErrsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betforge_kafka_consumer_errors_total",
				Help: "Total consumer errors",
			},
			[]string{"topic", "stage"},
		)
		consumerLatencyHist = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betforge_kafka_consumer_handle_seconds",
				Help:    "Handle latency including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic"},
		)
	default:
		// already initialized
	}
}

func observeConsumerHandled(topic, result string, dur time.Duration) {
	if consumerHandledTotal == nil {
		return
	}
	consumerHandledTotal.WithLabelValues(topic, result).Inc()
	consumerLatencyHist.WithLabelValues(topic).Observe(dur.Seconds())
}

func observeConsumerError(topic, stage string) {
	if consumerErrsTotal == nil {
		return
	}
	consumerErrsTotal.WithLabelValues(topic, stage).Inc()
}
