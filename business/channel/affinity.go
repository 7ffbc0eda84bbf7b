package channel

import (
	"slices"
	"strings"

	"adPilot/domain"
)

const (
	weightAudience = 0.4
	weightGoal     = 0.3
	weightTone     = 0.2
	weightCategory = 0.1

	generalSegment   = "general"
	mediumEngagement = "medium"
)

// Characteristics is the static profile of one channel.
type Characteristics struct {
	AudienceTypes []string
	ContentTypes  []string
	BestForGoals  []domain.CampaignGoal
	BaseCTR       float64
	BaseCPC       float64
	Demographic   string
}

var channelCharacteristics = map[domain.ChannelType]Characteristics{
	domain.ChannelLinkedIn: {
		AudienceTypes: []string{"professional", "b2b", "executive", "entrepreneur"},
		ContentTypes:  []string{"professional", "educational", "thought_leadership"},
		BestForGoals:  []domain.CampaignGoal{domain.GoalAwareness, domain.GoalEngagement},
		BaseCTR:       0.02,
		BaseCPC:       5.50,
		Demographic:   "25-65, professional",
	},
	domain.ChannelInstagram: {
		AudienceTypes: []string{"millennial", "gen_z", "visual_learners", "lifestyle"},
		ContentTypes:  []string{"visual", "lifestyle", "inspiring", "authentic"},
		BestForGoals:  []domain.CampaignGoal{domain.GoalEngagement, domain.GoalAwareness},
		BaseCTR:       0.015,
		BaseCPC:       3.20,
		Demographic:   "18-45, visual-focused",
	},
	domain.ChannelGoogleDisplay: {
		AudienceTypes: []string{"general", "shoppers", "researchers", "intent_driven"},
		ContentTypes:  []string{"informational", "product_focused", "comparison"},
		BestForGoals:  []domain.CampaignGoal{domain.GoalConversion, domain.GoalTraffic},
		BaseCTR:       0.01,
		BaseCPC:       1.80,
		Demographic:   "All ages, intent-driven",
	},
	domain.ChannelFacebook: {
		AudienceTypes: []string{"general", "community", "social", "local"},
		ContentTypes:  []string{"social", "community", "local", "personal"},
		BestForGoals:  []domain.CampaignGoal{domain.GoalEngagement, domain.GoalAwareness},
		BaseCTR:       0.012,
		BaseCPC:       2.40,
		Demographic:   "25-65, social",
	},
	domain.ChannelTwitter: {
		AudienceTypes: []string{"news_consumers", "influencers", "real_time", "conversational"},
		ContentTypes:  []string{"news", "real_time", "conversational", "trending"},
		BestForGoals:  []domain.CampaignGoal{domain.GoalEngagement, domain.GoalAwareness},
		BaseCTR:       0.008,
		BaseCPC:       1.20,
		Demographic:   "18-50, news-focused",
	},
	domain.ChannelTikTok: {
		AudienceTypes: []string{"gen_z", "millennial", "creative", "entertainment"},
		ContentTypes:  []string{"creative", "entertaining", "trending", "authentic"},
		BestForGoals:  []domain.CampaignGoal{domain.GoalEngagement, domain.GoalAwareness},
		BaseCTR:       0.025,
		BaseCPC:       4.80,
		Demographic:   "16-35, creative",
	},
}

// brand tone -> content types it reads well in
var toneMatches = map[string][]string{
	"professional": {"professional", "educational"},
	"casual":       {"lifestyle", "social", "authentic"},
	"friendly":     {"social", "community", "personal"},
	"luxury":       {"sophisticated", "premium"},
	"eco-friendly": {"authentic", "lifestyle", "inspiring"},
}

type categoryMatch struct {
	category string
	channels []domain.ChannelType
}

// every category contained in the product category is checked
var categoryMatches = []categoryMatch{
	{"technology", []domain.ChannelType{domain.ChannelLinkedIn, domain.ChannelTwitter}},
	{"fashion", []domain.ChannelType{domain.ChannelInstagram, domain.ChannelTikTok}},
	{"beauty", []domain.ChannelType{domain.ChannelInstagram, domain.ChannelTikTok}},
	{"b2b", []domain.ChannelType{domain.ChannelLinkedIn, domain.ChannelGoogleDisplay}},
	{"ecommerce", []domain.ChannelType{domain.ChannelGoogleDisplay, domain.ChannelFacebook}},
	{"local", []domain.ChannelType{domain.ChannelFacebook, domain.ChannelGoogleDisplay}},
}

var engagementMultipliers = map[string]float64{
	"high":   1.3,
	"medium": 1.0,
	"low":    0.7,
}

var goalMultipliers = map[domain.CampaignGoal]float64{
	domain.GoalAwareness:  1.0,
	domain.GoalEngagement: 1.2,
	domain.GoalConversion: 0.8,
	domain.GoalTraffic:    0.9,
}

// LookupCharacteristics returns the static profile for ch.
func LookupCharacteristics(ch domain.ChannelType) (Characteristics, bool) {
	c, ok := channelCharacteristics[ch]
	return c, ok
}

// matchResult records which of the four compatibility checks held.
type matchResult struct {
	audience bool
	goal     bool
	tone     bool
	category bool
}

func (m matchResult) score() float64 {
	score := 0.0
	if m.audience {
		score += weightAudience
	}
	if m.goal {
		score += weightGoal
	}
	if m.tone {
		score += weightTone
	}
	if m.category {
		score += weightCategory
	}
	// all four checks are always evaluated, so the applicable weight is 1.0
	return clamp01(score)
}

func evaluateMatch(ch domain.ChannelType, brandTone, productCategory, segment string, goal domain.CampaignGoal) matchResult {
	c, ok := channelCharacteristics[ch]
	if !ok {
		return matchResult{}
	}

	var m matchResult
	m.audience = slices.Contains(c.AudienceTypes, normalizeSegment(segment))

	m.goal = slices.Contains(c.BestForGoals, goal)

	tone := strings.ToLower(strings.TrimSpace(brandTone))
	if wanted, ok := toneMatches[tone]; ok {
	toneLoop:
		for _, w := range wanted {
			for _, ct := range c.ContentTypes {
				if strings.Contains(strings.ToLower(ct), w) {
					m.tone = true
					break toneLoop
				}
			}
		}
	}

	category := strings.ToLower(productCategory)
	for _, cm := range categoryMatches {
		if category != "" && strings.Contains(category, cm.category) && slices.Contains(cm.channels, ch) {
			m.category = true
			break
		}
	}

	return m
}

// Compatibility scores how well ch fits the campaign, in [0, 1].
func Compatibility(ch domain.ChannelType, brandTone, productCategory, segment string, goal domain.CampaignGoal) float64 {
	return evaluateMatch(ch, brandTone, productCategory, segment, goal).score()
}

// Estimate returns the static CTR and CPC estimate for ch before any learning.
func Estimate(ch domain.ChannelType, engagementLevel string, goal domain.CampaignGoal) (ctr, cpc float64) {
	c, ok := channelCharacteristics[ch]
	if !ok {
		return 0, 0
	}

	em, ok := engagementMultipliers[normalizeEngagement(engagementLevel)]
	if !ok {
		em = 1.0
	}
	gm, ok := goalMultipliers[goal]
	if !ok {
		gm = 1.0
	}

	ctr = c.BaseCTR * em * gm
	cpc = c.BaseCPC / em
	return ctr, cpc
}

func normalizeSegment(segment string) string {
	s := strings.ToLower(strings.TrimSpace(segment))
	if s == "" {
		return generalSegment
	}
	return s
}

func normalizeEngagement(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	if _, ok := engagementMultipliers[l]; !ok {
		return mediumEngagement
	}
	return l
}
