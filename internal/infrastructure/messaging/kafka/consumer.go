package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/roofsight/RoofSight-Engine/internal/config"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// MessageHandler processes one consumed message. A non-nil error triggers
// the retry policy; the message is committed either way.
type MessageHandler func(ctx context.Context, msg *Message) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.ReaderStats
}

// Consumer runs the sweep-request consume loop for the worker.
type Consumer struct {
	reader ReaderInterface
	cfg    config.WorkerConfig
	log    logging.Logger

	mu       sync.RWMutex
	handlers map[string]MessageHandler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	consumed  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// NewConsumer creates a Consumer subscribed to the given topics.
func NewConsumer(kafkaCfg config.KafkaConfig, workerCfg config.WorkerConfig, topics []string, log logging.Logger) (*Consumer, error) {
	if len(kafkaCfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if kafkaCfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "kafka group_id required")
	}
	if len(topics) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "topics required")
	}

	startOffset := kafka.FirstOffset
	if kafkaCfg.AutoOffsetReset == "latest" {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkaCfg.Brokers,
		GroupID:     kafkaCfg.GroupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10 * 1024 * 1024,
		StartOffset: startOffset,
	})

	return &Consumer{
		reader:   reader,
		cfg:      workerCfg,
		log:      log.Named("consumer"),
		handlers: make(map[string]MessageHandler),
	}, nil
}

// NewConsumerWithReader wraps an existing reader, for tests.
func NewConsumerWithReader(reader ReaderInterface, workerCfg config.WorkerConfig, log logging.Logger) *Consumer {
	return &Consumer{
		reader:   reader,
		cfg:      workerCfg,
		log:      log.Named("consumer"),
		handlers: make(map[string]MessageHandler),
	}
}

// Subscribe registers a handler for a topic. Replaces any previous handler.
func (c *Consumer) Subscribe(topic string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.log.Info("subscribed to topic", logging.String("topic", topic))
}

// Start launches the consume loop. Returns ErrAlreadyRunning on a second call.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.log.Info("kafka consumer started")
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("fetch message failed", logging.Err(err))
			time.Sleep(time.Second)
			continue
		}

		c.consumed.Add(1)

		msg := &Message{
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       m.Key,
			Value:     m.Value,
			Timestamp: m.Time,
			Headers:   make(map[string]string, len(m.Headers)),
		}
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			c.log.Warn("no handler for topic", logging.String("topic", m.Topic))
		} else if err := c.processMessage(ctx, msg, handler); err == nil {
			c.processed.Add(1)
		} else {
			c.failed.Add(1)
			c.log.Error("message processing failed after retries",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
		}

		// Commit regardless of the processing outcome so a poison message
		// does not stall the partition.
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.log.Error("commit failed", logging.Err(err))
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *Message, handler MessageHandler) error {
	err := handler(ctx, msg)
	if err == nil {
		return nil
	}

	maxRetries := c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := c.cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	for i := 0; i < maxRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if err = handler(ctx, msg); err == nil {
			return nil
		}
		backoff *= 2
	}
	return err
}

// Consumed returns the number of fetched messages.
func (c *Consumer) Consumed() int64 { return c.consumed.Load() }

// Processed returns the number of successfully handled messages.
func (c *Consumer) Processed() int64 { return c.processed.Load() }

// Failed returns the number of messages that exhausted their retries.
func (c *Consumer) Failed() int64 { return c.failed.Load() }

// Close stops the consume loop and closes the reader. Safe to call more
// than once.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	err := c.reader.Close()
	c.log.Info("kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}
