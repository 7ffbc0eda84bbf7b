package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.brands (
//     id                   TEXT PRIMARY KEY,
//     company_name         TEXT,
//     tone                 TEXT,
//     target_market        TEXT,
//     sustainability_focus BOOLEAN,
//     created_at           TIMESTAMPTZ DEFAULT NOW()
// );

type Brand struct {
	ID                  string    `gorm:"column:id;primaryKey" json:"id"`
	CompanyName         string    `gorm:"column:company_name;type:text" json:"company_name"`
	Story               string    `gorm:"column:story;type:text" json:"story"`
	Mission             string    `gorm:"column:mission;type:text" json:"mission"`
	Tone                string    `gorm:"column:tone;type:text" json:"tone"`
	TargetMarket        string    `gorm:"column:target_market;type:text" json:"target_market"`
	SustainabilityFocus bool      `gorm:"column:sustainability_focus;default:false" json:"sustainability_focus"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Brand) TableName() string {
	return "brands"
}

type Product struct {
	ID          string            `gorm:"column:id;primaryKey" json:"id"`
	BrandID     string            `gorm:"column:brand_id;index" json:"brand_id"`
	Name        string            `gorm:"column:name;type:text" json:"name"`
	Description string            `gorm:"column:description;type:text" json:"description"`
	Category    string            `gorm:"column:category;type:text" json:"category"`
	Price       float64           `gorm:"column:price;type:numeric" json:"price"`
	Features    datatypes.JSONMap `gorm:"column:features;type:jsonb" json:"features"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// AudienceRecord is one uploaded end-user row belonging to a brand.
type AudienceRecord struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	BrandID          string    `gorm:"column:brand_id;index" json:"brand_id"`
	UserID           string    `gorm:"column:user_id" json:"user_id"`
	Segment          string    `gorm:"column:segment;index" json:"segment"`
	ClicksLast30d    int       `gorm:"column:clicks_last_30d" json:"clicks_last_30d"`
	PurchasesLast90d int       `gorm:"column:purchases_last_90d" json:"purchases_last_90d"`
	FavoriteCategory string    `gorm:"column:favorite_category" json:"favorite_category"`
	Device           string    `gorm:"column:device" json:"device"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AudienceRecord) TableName() string {
	return "audience_records"
}

type AudienceCharacteristics struct {
	TotalUsers          int     `json:"total_users,omitempty"`
	AvgClicksPerUser    float64 `json:"avg_clicks_per_user,omitempty"`
	AvgPurchasesPerUser float64 `json:"avg_purchases_per_user,omitempty"`
	EngagementLevel     string  `json:"engagement_level,omitempty"`
	PurchaseIntent      string  `json:"purchase_intent,omitempty"`
	PrimaryDevice       string  `json:"primary_device,omitempty"`
	PrimaryCategory     string  `json:"primary_category,omitempty"`
}

// AudienceAnalysis is the segment summary produced by the audience analysis step.
type AudienceAnalysis struct {
	Segment         string                  `json:"segment"`
	Characteristics AudienceCharacteristics `json:"characteristics"`
}
