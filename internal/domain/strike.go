package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FlashType classifies a detection record.
type FlashType int

const (
	FlashCloudToGround FlashType = 0
	FlashCloudToCloud  FlashType = 1
	FlashHeartbeat     FlashType = 9
)

// IsLightning reports whether the record is an actual strike.
func (f FlashType) IsLightning() bool {
	return f == FlashCloudToGround || f == FlashCloudToCloud
}

// IsHeartbeat reports whether the record is a sensor heartbeat.
func (f FlashType) IsHeartbeat() bool {
	return f == FlashHeartbeat
}

// Strike is a single decoded detection record.
type Strike struct {
	Latitude  float64
	Longitude float64
	FlashType FlashType

	// Optional passthrough fields; zero when absent from the record.
	StrikeTime int64 // epoch milliseconds
	PeakAmps   float64
}

// strikeRecord mirrors the feed's JSON. Pointers distinguish a missing field
// from a zero value: flashType 0 and latitude 0 are both legitimate.
type strikeRecord struct {
	FlashType  *int     `json:"flashType" validate:"required"`
	StrikeTime *int64   `json:"strikeTime"`
	Latitude   *float64 `json:"latitude" validate:"required,latitude"`
	Longitude  *float64 `json:"longitude" validate:"required,longitude"`
	PeakAmps   *float64 `json:"peakAmps"`
}

// RawStrike is an undecoded strike message from the stream source.
type RawStrike struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ParseStrike decodes one JSON strike record. Missing or out-of-range
// coordinates and a missing flashType are errors wrapping ErrMalformedStrike.
func ParseStrike(data []byte) (Strike, error) {
	var rec strikeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Strike{}, fmt.Errorf("%w: %w", ErrMalformedStrike, err)
	}
	if err := validate.Struct(rec); err != nil {
		return Strike{}, fmt.Errorf("%w: %w", ErrMalformedStrike, err)
	}

	s := Strike{
		Latitude:  *rec.Latitude,
		Longitude: *rec.Longitude,
		FlashType: FlashType(*rec.FlashType),
	}
	if rec.StrikeTime != nil {
		s.StrikeTime = *rec.StrikeTime
	}
	if rec.PeakAmps != nil {
		s.PeakAmps = *rec.PeakAmps
	}
	return s, nil
}
