package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertKind names the alert template.
type AlertKind string

const (
	AlertLightning AlertKind = "lightning"
	AlertHeartbeat AlertKind = "heartbeat"
)

// Alert is a strike matched to an asset.
type Alert struct {
	ID         string    `json:"id"`
	Kind       AlertKind `json:"kind"`
	AssetOwner string    `json:"asset_owner"`
	AssetName  string    `json:"asset_name"`
	QuadKey    string    `json:"quad_key"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	FlashType  FlashType `json:"flash_type"`
	StrikeTime int64     `json:"strike_time,omitempty"`
	AlertedAt  time.Time `json:"alerted_at"`
}

// Message renders the console line, e.g. "lightning alert for 6720:Dante Street".
func (a Alert) Message() string {
	return fmt.Sprintf("%s alert for %s:%s", a.Kind, a.AssetOwner, a.AssetName)
}

func newAlert(kind AlertKind, ref AssetRef, key string, s Strike) Alert {
	return Alert{
		ID:         uuid.NewString(),
		Kind:       kind,
		AssetOwner: ref.Owner,
		AssetName:  ref.Name,
		QuadKey:    key,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		FlashType:  s.FlashType,
		StrikeTime: s.StrikeTime,
		AlertedAt:  clock.Now().UTC(),
	}
}
