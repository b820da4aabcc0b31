package triggersdto

import "encoding/json"

type CreateTriggerInput struct {
	CarrierID     string
	TriggerType   string
	TriggerConfig json.RawMessage
	IsActive      *bool
}

// UpdateTriggerInput replaces the rule when TriggerConfig is set and toggles
// the trigger when IsActive is set.
type UpdateTriggerInput struct {
	TriggerID     string
	CarrierID     string
	TriggerType   string
	TriggerConfig json.RawMessage
	IsActive      *bool
}
