package publisher

import (
	"context"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

// NotificationDelivery pushes carrier alerts onto a topic for the
// SMS/email workers.
type NotificationDelivery struct {
	publisher *DefaultKafkaPublisher
	topic     string
}

func NewNotificationDelivery(publisher *DefaultKafkaPublisher, topic string) *NotificationDelivery {
	return &NotificationDelivery{publisher: publisher, topic: topic}
}

func (d *NotificationDelivery) Send(ctx context.Context, n domain.Notification) error {
	return d.publisher.PublishJSON(ctx, d.topic, n.CarrierID, n)
}
