package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type TriggerType string

const (
	TriggerLaneMatch       TriggerType = "lane_match"
	TriggerStatePreference TriggerType = "state_match"
	TriggerDistanceRange   TriggerType = "distance_range"
	TriggerEquipment       TriggerType = "equipment"
	TriggerBackhaul        TriggerType = "backhaul"
	TriggerExactMatch      TriggerType = "exact_match"
	TriggerDeadline        TriggerType = "deadline_approaching"
)

// TriggerRule is the closed set of trigger variants. Only types in this
// package implement it.
type TriggerRule interface {
	Type() TriggerType
	Validate() error
	Filters() TriggerFilters
	triggerRule()
}

// TriggerFilters are optional conditions any trigger may carry in its config.
// They are AND-ed with the variant's own condition.
type TriggerFilters struct {
	MinDistanceMiles *int     `json:"min_distance_miles,omitempty"`
	MaxDistanceMiles *int     `json:"max_distance_miles,omitempty"`
	Equipment        []string `json:"equipment,omitempty"`
}

func (f TriggerFilters) Filters() TriggerFilters { return f }

func (f TriggerFilters) validateFilters() error {
	if f.MinDistanceMiles != nil && *f.MinDistanceMiles < 0 {
		return fmt.Errorf("min_distance_miles cannot be negative")
	}
	if f.MaxDistanceMiles != nil && *f.MaxDistanceMiles < 0 {
		return fmt.Errorf("max_distance_miles cannot be negative")
	}
	if f.MinDistanceMiles != nil && f.MaxDistanceMiles != nil && *f.MinDistanceMiles > *f.MaxDistanceMiles {
		return fmt.Errorf("min_distance_miles exceeds max_distance_miles")
	}
	return nil
}

// Allow reports whether the auction passes every filter that is set.
func (f TriggerFilters) Allow(auction *Auction) bool {
	if f.MinDistanceMiles != nil && auction.DistanceMiles < *f.MinDistanceMiles {
		return false
	}
	if f.MaxDistanceMiles != nil && auction.DistanceMiles > *f.MaxDistanceMiles {
		return false
	}
	if len(f.Equipment) == 0 {
		return true
	}
	return TagMatches(auction.Tag, f.Equipment)
}

// TagMatches is a case-insensitive containment check of any wanted marker
// in the auction tag.
func TagMatches(tag string, wanted []string) bool {
	tag = strings.ToUpper(tag)
	if tag == "" {
		return false
	}
	for _, w := range wanted {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" && strings.Contains(tag, w) {
			return true
		}
	}
	return false
}

// LaneMatchRule matches on the first and last stop. Empty fields are wildcards.
type LaneMatchRule struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	TriggerFilters
}

func (LaneMatchRule) Type() TriggerType { return TriggerLaneMatch }
func (LaneMatchRule) triggerRule()      {}

func (r LaneMatchRule) Validate() error {
	if r.Origin == "" && r.Destination == "" {
		return fmt.Errorf("lane_match needs an origin or a destination")
	}
	return r.validateFilters()
}

type StatePreferenceRule struct {
	OriginStates      []string `json:"origin_states,omitempty"`
	DestinationStates []string `json:"destination_states,omitempty"`
	TriggerFilters
}

func (StatePreferenceRule) Type() TriggerType { return TriggerStatePreference }
func (StatePreferenceRule) triggerRule()      {}

func (r StatePreferenceRule) Validate() error {
	if len(r.OriginStates) == 0 && len(r.DestinationStates) == 0 {
		return fmt.Errorf("state_match needs origin_states or destination_states")
	}
	return r.validateFilters()
}

type DistanceRangeRule struct {
	MinMiles *int `json:"min_miles,omitempty"`
	MaxMiles *int `json:"max_miles,omitempty"`
	TriggerFilters
}

func (DistanceRangeRule) Type() TriggerType { return TriggerDistanceRange }
func (DistanceRangeRule) triggerRule()      {}

func (r DistanceRangeRule) Validate() error {
	if r.MinMiles == nil && r.MaxMiles == nil {
		return fmt.Errorf("distance_range needs min_miles or max_miles")
	}
	if r.MinMiles != nil && *r.MinMiles < 0 {
		return fmt.Errorf("min_miles cannot be negative")
	}
	if r.MinMiles != nil && r.MaxMiles != nil && *r.MinMiles > *r.MaxMiles {
		return fmt.Errorf("min_miles exceeds max_miles")
	}
	return r.validateFilters()
}

// EquipmentRule matches the auction tag. Loads in this market carry their
// equipment/category marker in the tag.
type EquipmentRule struct {
	Tags []string `json:"tags"`
	TriggerFilters
}

func (EquipmentRule) Type() TriggerType { return TriggerEquipment }
func (EquipmentRule) triggerRule()      {}

func (r EquipmentRule) Validate() error {
	if len(r.Tags) == 0 {
		return fmt.Errorf("equipment needs at least one tag")
	}
	return r.validateFilters()
}

// BackhaulRule looks for a load leaving from where one of the carrier's
// recently awarded loads delivers.
// The distance cap is the shared max_distance_miles filter.
type BackhaulRule struct {
	LookbackDays int `json:"lookback_days,omitempty"`
	TriggerFilters
}

const DefaultBackhaulLookbackDays = 7

func (BackhaulRule) Type() TriggerType { return TriggerBackhaul }
func (BackhaulRule) triggerRule()      {}

func (r BackhaulRule) Validate() error {
	if r.LookbackDays < 0 {
		return fmt.Errorf("lookback_days cannot be negative")
	}
	return r.validateFilters()
}

func (r BackhaulRule) Lookback() time.Duration {
	days := r.LookbackDays
	if days == 0 {
		days = DefaultBackhaulLookbackDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// ExactMatchRule fires when a load runs the same route as one of the carrier's
// favorite loads. IncludeReverse also accepts the route driven backwards.
type ExactMatchRule struct {
	FavoriteBidNumbers []string `json:"favorite_bid_numbers"`
	IncludeReverse     *bool    `json:"include_reverse,omitempty"`
	TriggerFilters
}

func (ExactMatchRule) Type() TriggerType { return TriggerExactMatch }
func (ExactMatchRule) triggerRule()      {}

func (r ExactMatchRule) Validate() error {
	if len(r.FavoriteBidNumbers) == 0 {
		return fmt.Errorf("exact_match needs at least one favorite bid number")
	}
	for _, bn := range r.FavoriteBidNumbers {
		if strings.TrimSpace(bn) == "" {
			return fmt.Errorf("favorite bid numbers cannot be empty")
		}
	}
	return r.validateFilters()
}

// MatchesReverse defaults to true.
func (r ExactMatchRule) MatchesReverse() bool {
	return r.IncludeReverse == nil || *r.IncludeReverse
}

// DeadlineRule fires once an open auction has at most MinutesLeft minutes of
// bidding left.
type DeadlineRule struct {
	MinutesLeft int `json:"minutes_left"`
	TriggerFilters
}

const MaxDeadlineMinutes = 24 * 60

func (DeadlineRule) Type() TriggerType { return TriggerDeadline }
func (DeadlineRule) triggerRule()      {}

func (r DeadlineRule) Validate() error {
	if r.MinutesLeft < 1 || r.MinutesLeft > MaxDeadlineMinutes {
		return fmt.Errorf("minutes_left must be between 1 and %d", MaxDeadlineMinutes)
	}
	return r.validateFilters()
}

func (r DeadlineRule) Threshold() time.Duration {
	return time.Duration(r.MinutesLeft) * time.Minute
}

// DecodeTriggerRule turns a stored trigger_type/trigger_config pair into its variant.
func DecodeTriggerRule(triggerType TriggerType, config []byte) (TriggerRule, error) {
	var rule TriggerRule
	var err error
	switch triggerType {
	case TriggerLaneMatch:
		var r LaneMatchRule
		err = json.Unmarshal(config, &r)
		rule = r
	case TriggerStatePreference:
		var r StatePreferenceRule
		err = json.Unmarshal(config, &r)
		rule = r
	case TriggerDistanceRange:
		var r DistanceRangeRule
		err = json.Unmarshal(config, &r)
		rule = r
	case TriggerEquipment:
		var r EquipmentRule
		err = json.Unmarshal(config, &r)
		rule = r
	case TriggerExactMatch:
		var r ExactMatchRule
		err = json.Unmarshal(config, &r)
		rule = r
	case TriggerDeadline:
		var r DeadlineRule
		err = json.Unmarshal(config, &r)
		rule = r
	case TriggerBackhaul:
		var r BackhaulRule
		if len(config) > 0 {
			err = json.Unmarshal(config, &r)
		}
		rule = r
	default:
		return nil, fmt.Errorf("unknown trigger type %q", triggerType)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", triggerType, err)
	}
	return rule, nil
}

type Trigger struct {
	ID        string
	CarrierID string
	Rule      TriggerRule
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Trigger) Type() TriggerType {
	return t.Rule.Type()
}

type TriggerRepository interface {
	CreateTrigger(ctx context.Context, trigger *Trigger) error
	UpdateTrigger(ctx context.Context, trigger *Trigger) error
	GetTrigger(ctx context.Context, triggerID string) (*Trigger, error)
	ListTriggersByCarrier(ctx context.Context, carrierID string) ([]*Trigger, error)
	// ListActiveTriggers returns every active trigger. Rows whose config no
	// longer decodes are reported through the second return value.
	ListActiveTriggers(ctx context.Context) ([]*Trigger, []error, error)
	DeleteTrigger(ctx context.Context, triggerID, carrierID string) error
}
