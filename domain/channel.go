package domain

import (
	"fmt"
	"strings"
)

type ChannelType string

const (
	ChannelLinkedIn      ChannelType = "linkedin"
	ChannelInstagram     ChannelType = "instagram"
	ChannelGoogleDisplay ChannelType = "google_display"
	ChannelFacebook      ChannelType = "facebook"
	ChannelTwitter       ChannelType = "twitter"
	ChannelTikTok        ChannelType = "tiktok"
)

// AllChannels is the recognized channel enumeration in recommendation order.
var AllChannels = []ChannelType{
	ChannelLinkedIn,
	ChannelInstagram,
	ChannelGoogleDisplay,
	ChannelFacebook,
	ChannelTwitter,
	ChannelTikTok,
}

func ParseChannel(s string) (ChannelType, error) {
	c := ChannelType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllChannels {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q: %w", s, ErrInvalidInput)
}

type CampaignGoal string

const (
	GoalAwareness  CampaignGoal = "awareness"
	GoalConversion CampaignGoal = "conversion"
	GoalEngagement CampaignGoal = "engagement"
	GoalTraffic    CampaignGoal = "traffic"
)

func ParseGoal(s string) (CampaignGoal, error) {
	g := CampaignGoal(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GoalAwareness, GoalConversion, GoalEngagement, GoalTraffic:
		return g, nil
	}
	return "", fmt.Errorf("unknown campaign goal %q: %w", s, ErrInvalidInput)
}
