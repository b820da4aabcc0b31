package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationTriggerModel struct {
	ID            string         `gorm:"primaryKey;type:uuid"`
	CarrierID     string         `gorm:"not null;index:idx_notification_triggers_carrier"`
	TriggerType   string         `gorm:"not null"`
	TriggerConfig datatypes.JSON `gorm:"type:jsonb;not null"`
	IsActive      bool           `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (NotificationTriggerModel) TableName() string {
	return "notification_triggers"
}

type NotificationLogModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	TriggerID string `gorm:"type:uuid;not null;uniqueIndex:ux_notification_logs_trigger_bid"`
	BidNumber string `gorm:"not null;uniqueIndex:ux_notification_logs_trigger_bid"`
	CarrierID string `gorm:"not null;index:idx_notification_logs_carrier"`
	Message   string `gorm:"type:text"`
	SentAt    time.Time
}

func (NotificationLogModel) TableName() string {
	return "notification_logs"
}
