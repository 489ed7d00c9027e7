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

	"github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Reader is the subset of *kafka.Reader the consumer uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReaderFactory opens a reader for one topic.
type ReaderFactory func(topic string) Reader

// Consumer runs one reader per registered topic. Messages of a topic are
// handled in order; failed messages are retried with backoff, then skipped.
type Consumer struct {
	cfg       *ConsumerConfig
	newReader ReaderFactory
	handlers  map[string]MessageHandler
	readers   map[string]Reader
	log       *logger.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewConsumer creates a consumer backed by kafka-go readers.
func NewConsumer(log *logger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := defaultConsumerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	factory := func(topic string) Reader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    topic,
			GroupID:  cfg.GroupID,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
		})
	}
	return NewConsumerWithReaders(factory, log, opts...), nil
}

// NewConsumerWithReaders creates a consumer over custom readers.
func NewConsumerWithReaders(factory ReaderFactory, log *logger.Logger, opts ...ConsumerOption) *Consumer {
	cfg := defaultConsumerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if log == nil {
		log = logger.Nop()
	}
	initConsumerMetrics()
	return &Consumer{
		cfg:       cfg,
		newReader: factory,
		handlers:  make(map[string]MessageHandler),
		readers:   make(map[string]Reader),
		log:       log.With(logger.String("component", "kafka_consumer")),
	}
}

// RegisterHandler registers a message handler for its topic.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		c.log.Warn("handler already registered", logger.String("topic", topic))
		return
	}
	c.handlers[topic] = handler
}

// Start opens the readers and begins consuming in the background.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	for topic, handler := range c.handlers {
		reader := c.newReader(topic)
		c.readers[topic] = reader
		c.wg.Add(1)
		go c.consume(ctx, reader, handler)
		c.log.Info("consuming", logger.String("topic", topic), logger.String("group", c.cfg.GroupID))
	}
	return nil
}

// Stop cancels consumption and waits for in-flight messages.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		case <-done:
		}

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				c.log.Warn("close reader failed", logger.String("topic", topic), logger.Error(err))
			}
		}
	})
	return stopErr
}

func (c *Consumer) consume(ctx context.Context, reader Reader, handler MessageHandler) {
	defer c.wg.Done()
	topic := handler.Topic()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			c.log.Warn("fetch message failed", logger.String("topic", topic), logger.Error(err))
			if !sleepCtx(ctx, c.cfg.BackoffMax) {
				return
			}
			continue
		}

		start := time.Now()
		if err := c.handle(ctx, handler, msg); err != nil {
			consumerMessagesTotal.WithLabelValues(topic, "error").Inc()
			c.log.Error("message dropped after retries",
				logger.String("topic", topic),
				logger.Int("partition", msg.Partition),
				logger.Int("offset", int(msg.Offset)),
				logger.Error(err))
		} else {
			consumerMessagesTotal.WithLabelValues(topic, "ok").Inc()
		}
		consumerHandleLatency.WithLabelValues(topic).Observe(time.Since(start).Seconds())

		// Commit after retries either way so a poison message cannot block the partition.
		if err := reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
			c.log.Warn("commit failed", logger.String("topic", topic), logger.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, handler MessageHandler, msg kafka.Message) (err error) {
	for attempt := 1; ; attempt++ {
		err = c.safeHandle(ctx, handler, msg.Value)
		if err == nil || attempt > c.cfg.RetryMax {
			return err
		}
		if !sleepCtx(ctx, backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)) {
			return err
		}
	}
}

func (c *Consumer) safeHandle(ctx context.Context, handler MessageHandler, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, data)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	exp := min * time.Duration(1<<uint(attempt-1))
	if exp > max {
		exp = max
	}
	// jitter up to 50%
	return exp - time.Duration(rand.Int63n(int64(exp)/2+1))
}

var (
	consumerMessagesTotal *prometheus.CounterVec
	consumerHandleLatency *prometheus.HistogramVec
	consumerOnce          sync.Once
)

func initConsumerMetrics() {
	consumerOnce.Do(func() {
		consumerMessagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{Name: "fundamentals_kafka_consumer_messages_total", Help: "Messages handled per topic and result"},
			[]string{"topic", "result"},
		)
		consumerHandleLatency = promauto.NewHistogramVec(
			prometheus.HistogramOpts{Name: "fundamentals_kafka_consumer_handle_seconds", Help: "Handling time per message"},
			[]string{"topic"},
		)
	})
}
