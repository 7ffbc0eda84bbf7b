package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ChannelRecommendationSnapshot is a persisted copy of one recommend call.
type ChannelRecommendationSnapshot struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	BrandID         string         `gorm:"column:brand_id;index;not null" json:"brand_id"`
	ProductID       string         `gorm:"column:product_id;not null" json:"product_id"`
	AudienceSegment string         `gorm:"column:audience_segment" json:"audience_segment"`
	CampaignGoal    string         `gorm:"column:campaign_goal" json:"campaign_goal"`
	BestChannel     string         `gorm:"column:best_channel" json:"best_channel"`
	TotalConfidence float64        `gorm:"column:total_confidence" json:"total_confidence"`
	Payload         datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ChannelRecommendationSnapshot) TableName() string {
	return "channel_recommendations"
}
