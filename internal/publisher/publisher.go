// Package publisher fans successful market list polls out to downstream
// consumers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/sirupsen/logrus"
)

const flushTimeoutMs = 5000

type Publisher interface {
	PublishMarkets(ctx context.Context, coins []coingecko.CoinSummary) error
	Close()
}

// MarketSnapshot is the message written for one list poll.
type MarketSnapshot struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Count     int             `json:"count"`
	Coins     []SnapshotEntry `json:"coins"`
}

type SnapshotEntry struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Price                    float64 `json:"price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

func NewSnapshot(coins []coingecko.CoinSummary, at time.Time) MarketSnapshot {
	entries := make([]SnapshotEntry, len(coins))
	for i, c := range coins {
		entries[i] = SnapshotEntry{
			ID:                       c.ID,
			Symbol:                   c.Symbol,
			Name:                     c.Name,
			Price:                    c.CurrentPrice,
			PriceChangePercentage24h: c.PriceChangePercentage24h,
		}
	}
	return MarketSnapshot{FetchedAt: at.UTC(), Count: len(coins), Coins: entries}
}

func Encode(coins []coingecko.CoinSummary, at time.Time) ([]byte, error) {
	data, err := json.Marshal(NewSnapshot(coins, at))
	if err != nil {
		return nil, fmt.Errorf("encode market snapshot: %w", err)
	}
	return data, nil
}

// Nop discards everything. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishMarkets(context.Context, []coingecko.CoinSummary) error { return nil }
func (Nop) Close() {}

type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *logrus.Entry
	now      func() time.Time
}

// NewKafka creates a producer for broker and starts draining its delivery
// reports.
func NewKafka(broker, topic string, logger *logrus.Logger) (*KafkaPublisher, error) {
	config := kafka.ConfigMap{
		"bootstrap.servers": broker,
	}

	producer, err := kafka.NewProducer(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.WithFields(logrus.Fields{"component": "publisher", "topic": topic}),
		now:      time.Now,
	}
	p.startDeliveryReport()
	p.logger.Info("Kafka Producer initialized successfully")
	return p, nil
}

// Check Events channel of kafka and log failed deliveries.
func (p *KafkaPublisher) startDeliveryReport() {
	go func() {
		for e := range p.producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					p.logger.Errorf("Message delivery failed: %v", ev.TopicPartition.Error)
				}
			}
		}
	}()
}

func (p *KafkaPublisher) PublishMarkets(ctx context.Context, coins []coingecko.CoinSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message, err := Encode(coins, p.now())
	if err != nil {
		return err
	}

	topic := p.topic
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte("markets"),
		Value:          message,
	}, nil)
}

func (p *KafkaPublisher) Close() {
	if remaining := p.producer.Flush(flushTimeoutMs); remaining > 0 {
		p.logger.Warnf("%d messages were not delivered before shutdown", remaining)
	}
	p.producer.Close()
	p.logger.Info("Kafka Producer closed")
}

// Observer adapts pub to a list observer. Failures are logged, never returned.
func Observer(ctx context.Context, pub Publisher, logger *logrus.Logger) func([]coingecko.CoinSummary) {
	return func(coins []coingecko.CoinSummary) {
		if err := pub.PublishMarkets(ctx, coins); err != nil {
			logger.WithField("component", "publisher").Errorf("Failed to publish markets: %v", err)
		}
	}
}
