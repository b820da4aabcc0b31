package publisher

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaSubscriber struct {
	brokers []string
}

func NewDefaultKafkaSubscriber(brokers []string) *DefaultKafkaSubscriber {
	return &DefaultKafkaSubscriber{brokers: brokers}
}

// Subscribe reads the topic until ctx is done. The returned channel is closed
// when the reader stops.
func (k *DefaultKafkaSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Error("kafka reader stopped", "topic", topic, "error", err)
				}
				return
			}
			select {
			case out <- domain.Message{Key: m.Key, Value: m.Value}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
