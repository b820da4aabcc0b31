package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(ctx, km...)
}

// PublishJSON кладёт событие в топик, ключ задаёт партицию (все события аукциона в одной).
func (k *DefaultKafkaPublisher) PublishJSON(ctx context.Context, topic, key string, event any) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(ctx, topic, domain.Message{Key: []byte(key), Value: v})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
