package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackEvent is one performance report for an ad on a channel. Segment and
// test fields are optional and route the event to the ad engine and A/B controller.
type FeedbackEvent struct {
	ID              string            `gorm:"column:id;primaryKey" json:"id"`
	AdID            string            `gorm:"column:ad_id;index;not null" json:"ad_id"`
	Channel         string            `gorm:"column:channel;not null" json:"channel"`
	AudienceSegment string            `gorm:"column:audience_segment" json:"audience_segment,omitempty"`
	Impressions     int64             `gorm:"column:impressions" json:"impressions"`
	Clicks          int64             `gorm:"column:clicks" json:"clicks"`
	Conversions     int64             `gorm:"column:conversions" json:"conversions"`
	Spend           float64           `gorm:"column:spend" json:"spend"`
	Revenue         float64           `gorm:"column:revenue" json:"revenue"`
	CTR             float64           `gorm:"column:ctr" json:"ctr"`
	ConversionRate  float64           `gorm:"column:conversion_rate" json:"conversion_rate"`
	Notes           string            `gorm:"column:notes;type:text" json:"feedback_notes,omitempty"`
	Attributes      datatypes.JSONMap `gorm:"column:attributes;type:jsonb" json:"ad_attributes,omitempty"`
	EnergyKWh       float64           `gorm:"column:energy_kwh" json:"energy_consumed"`
	CO2Kg           float64           `gorm:"column:co2_kg" json:"co2_emissions"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	TestID    string `gorm:"-" json:"test_id,omitempty"`
	VariantID string `gorm:"-" json:"variant_id,omitempty"`
	UserID    string `gorm:"-" json:"user_id,omitempty"`
}

func (FeedbackEvent) TableName() string {
	return "feedback_events"
}
