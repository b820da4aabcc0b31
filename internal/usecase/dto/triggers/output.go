package triggersdto

import "time"

type NotificationStats struct {
	CarrierID          string
	Since              time.Time
	UniqueBidsNotified int64
}
