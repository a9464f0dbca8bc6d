// Package consumer tails the market snapshots written by the publisher.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/navid-fn/coinboard/internal/publisher"
	"github.com/sirupsen/logrus"
)

const pollTimeout = time.Second

// Handler receives each decoded snapshot. An error stops the consumer.
type Handler func(publisher.MarketSnapshot) error

type Consumer struct {
	reader *kafka.Consumer
	topic  string
	logger *logrus.Entry
}

func NewConsumer(broker, topic, groupID string, logger *logrus.Logger) (*Consumer, error) {
	reader, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  broker,
		"group.id":           groupID,
		"auto.offset.reset":  "latest",
		"enable.auto.commit": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	if err := reader.SubscribeTopics([]string{topic}, nil); err != nil {
		reader.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	return &Consumer{
		reader: reader,
		topic:  topic,
		logger: logger.WithFields(logrus.Fields{"component": "consumer", "topic": topic, "group": groupID}),
	}, nil
}

// Start reads until ctx is done or handle fails. Undecodable messages are
// logged and skipped.
func (c *Consumer) Start(ctx context.Context, handle Handler) error {
	c.logger.Info("Starting Kafka consumer")
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Errorf("Error closing consumer: %v", err)
			return
		}
		c.logger.Info("Kafka consumer shut down cleanly")
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		msg, err := c.reader.ReadMessage(pollTimeout)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.IsTimeout() {
				continue
			}
			c.logger.Errorf("Error fetching message: %v", err)
			continue
		}

		snapshot, err := Decode(msg.Value)
		if err != nil {
			c.logger.Errorf("Skipping message at offset %v: %v", msg.TopicPartition.Offset, err)
			continue
		}
		if err := handle(snapshot); err != nil {
			return err
		}
	}
}

func Decode(data []byte) (publisher.MarketSnapshot, error) {
	var snapshot publisher.MarketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("decode market snapshot: %w", err)
	}
	return snapshot, nil
}
