package services

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageSource is the subset of kafka.Reader the consumer loop drives.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageHandler processes one message body from the notifications topic.
type messageHandler interface {
	HandleIncoming(ctx context.Context, value []byte) error
}

// Consumer drives the notification pipeline from the broker. One fetch loop
// per process keeps messages within a partition strictly ordered; a message's
// offset is committed only after its notification is durably stored (or the
// message is deliberately discarded).
type Consumer struct {
	reader messageSource
	notifs messageHandler

	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

func NewConsumer(reader messageSource, notifs messageHandler) *Consumer {
	return &Consumer{
		reader:        reader,
		notifs:        notifs,
		retryDelay:    time.Second,
		maxRetryDelay: 30 * time.Second,
	}
}

// Run blocks processing messages until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) {
	log.Println("Kafka consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			log.Printf("Kafka fetch error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if !c.process(ctx, msg) {
			return
		}
	}
}

// process stores one message and commits its offset. A store failure blocks
// the partition: the group offset is a single watermark, so committing any
// later message would mark this one consumed and its notification would be
// lost. The same message is therefore retried in place, with backoff, until
// the store write succeeds. Returns false once ctx is canceled.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	delay := c.retryDelay

	for {
		err := c.notifs.HandleIncoming(ctx, msg.Value)
		if err == nil {
			break
		}

		log.Printf("Failed to process event %s[%d]@%d, retrying in %s: %v", msg.Topic, msg.Partition, msg.Offset, delay, err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.maxRetryDelay {
			delay = c.maxRetryDelay
		}
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.Printf("Kafka commit error: %v", err)
	}
	return true
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
