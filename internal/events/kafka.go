package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher writes claim events to a single Kafka topic. One attempt
// per event; the writer's own timeout bounds the call.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
		MaxAttempts:            1,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{
		writer: writer,
		log:    log.Named("events.kafka"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ClaimEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ClaimID),
		Value: payload,
		Time:  event.Timestamp,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
