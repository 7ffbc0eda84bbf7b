package domain

import "time"

type ABTestType string

const (
	TestTypeHeadline ABTestType = "headline"
	TestTypeCTA      ABTestType = "cta"
	TestTypeBody     ABTestType = "body"
)

type ABTestStatus string

const (
	TestStatusActive    ABTestStatus = "active"
	TestStatusCompleted ABTestStatus = "completed"
)

type TestArm string

const (
	ArmControl TestArm = "control"
	ArmVariant TestArm = "variant"
)

type TestEventType string

const (
	EventImpression TestEventType = "impression"
	EventClick      TestEventType = "click"
	EventConversion TestEventType = "conversion"
)

// Creative is an ad body keyed by field (headline, body, cta, product_name, ...).
type Creative map[string]string

// Variant is one creative alternative of a test; index 0 is the control.
type Variant struct {
	VariantID string   `json:"variant_id"`
	Creative  Creative `json:"creative"`
}

type ArmMetrics struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

type ABTest struct {
	TestID       string                 `json:"test_id"`
	TestName     string                 `json:"test_name"`
	TestType     ABTestType             `json:"test_type"`
	BaseAd       Creative               `json:"base_ad"`
	Variants     []Variant              `json:"variants"`
	TrafficSplit float64                `json:"traffic_split"`
	Status       ABTestStatus           `json:"status"`
	Metrics      map[TestArm]ArmMetrics `json:"metrics"`
	CreatedAt    time.Time              `json:"created_at"`
	EndedAt      *time.Time             `json:"ended_at,omitempty"`
}

type ArmResult struct {
	ArmMetrics
	CTR                  float64 `json:"ctr"`
	ConversionRate       float64 `json:"conversion_rate"`
	RevenuePerImpression float64 `json:"revenue_per_impression"`
}

type Improvements struct {
	CTRPercent        float64 `json:"ctr_improvement_percent"`
	ConversionPercent float64 `json:"conversion_improvement_percent"`
	RevenuePercent    float64 `json:"revenue_improvement_percent"`
}

type TestResults struct {
	TestID          string       `json:"test_id"`
	TestName        string       `json:"test_name"`
	TestType        ABTestType   `json:"test_type"`
	Status          ABTestStatus `json:"status"`
	Control         ArmResult    `json:"control_metrics"`
	Variant         ArmResult    `json:"variant_metrics"`
	Improvements    Improvements `json:"improvements"`
	Winner          TestArm      `json:"winner"`
	ConfidenceLevel string       `json:"confidence_level"`
}
