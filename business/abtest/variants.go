package abtest

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"adPilot/domain"
)

// Picker chooses an index in [0, n). Template choice and variant-arm
// assignment both go through it so tests can pin the outcome.
type Picker interface {
	IntN(n int) int
}

type randPicker struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandPicker() Picker {
	now := uint64(time.Now().UnixNano())
	return &randPicker{r: rand.New(rand.NewPCG(now, now>>1|1))}
}

func NewSeededPicker(seed uint64) Picker {
	return &randPicker{r: rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))}
}

func (p *randPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}

type style string

const (
	styleDefault   style = "default"
	styleUrgency   style = "urgency"
	styleBenefit   style = "benefit"
	styleAction    style = "action"
	styleEmotional style = "emotional"
	styleLogical   style = "logical"
	styleSocial    style = "social"
)

// generated variants per test type, in order after the control
var variantStyles = map[domain.ABTestType][]style{
	domain.TestTypeHeadline: {styleDefault, styleUrgency, styleBenefit},
	domain.TestTypeCTA:      {styleUrgency, styleBenefit, styleAction},
	domain.TestTypeBody:     {styleEmotional, styleLogical, styleSocial},
}

// templates use {product} as the product name placeholder
var headlineTemplates = map[style][]string{
	styleUrgency: {
		"Limited Time: {product}",
		"Don't Miss Out on {product}",
		"Last Chance: {product}",
		"Act Now: {product}",
	},
	styleBenefit: {
		"Save Money with {product}",
		"Boost Productivity with {product}",
		"Transform Your Life with {product}",
		"Get Results with {product}",
	},
	styleDefault: {
		"Discover {product}",
		"Introducing {product}",
		"Meet {product}",
		"Experience {product}",
	},
}

var ctaTemplates = map[style][]string{
	styleUrgency: {"Act Now", "Get It Today", "Limited Time", "Don't Wait"},
	styleBenefit: {"Save Money", "Get Results", "Transform Now", "Boost Success"},
	styleAction:  {"Learn More", "Discover How", "See Details", "Find Out"},
	styleDefault: {"Get Started", "Try Now", "Shop Now", "Learn More"},
}

var bodyTemplates = map[style][]string{
	styleEmotional: {
		"Feel the difference with {product}. Experience the change you've been waiting for.",
		"Transform your daily routine with {product}. You deserve this upgrade.",
		"Join thousands who've already made the switch to {product}.",
	},
	styleLogical: {
		"Data shows {product} delivers 40% better results than alternatives.",
		"Proven technology in {product} gives you the edge you need.",
		"Research-backed {product} provides measurable improvements.",
	},
	styleSocial: {
		"Join 10,000+ satisfied customers who chose {product}.",
		"See why everyone's talking about {product}. Be part of the movement.",
		"Trusted by professionals worldwide. {product} is the smart choice.",
	},
	styleDefault: {
		"Discover the benefits of {product} today.",
		"Experience the quality of {product} for yourself.",
		"See what makes {product} special.",
	},
}

const (
	headlineProductFallback = "Product"
	bodyProductFallback     = "our product"
)

// field returns the creative key a test type varies.
func field(t domain.ABTestType) string {
	return string(t)
}

func generateVariants(base domain.Creative, t domain.ABTestType, n int, picker Picker) ([]domain.Variant, error) {
	styles, ok := variantStyles[t]
	if !ok {
		return nil, fmt.Errorf("unknown test type %q: %w", t, domain.ErrInvalidInput)
	}

	key := field(t)
	variants := make([]domain.Variant, 0, n)
	variants = append(variants, newVariant(base, t, 0, key, base[key]))

	for i := 1; i < n; i++ {
		st := styles[(i-1)%len(styles)]
		variants = append(variants, newVariant(base, t, i, key, renderTemplate(base, t, st, picker)))
	}
	return variants, nil
}

func newVariant(base domain.Creative, t domain.ABTestType, idx int, key, value string) domain.Variant {
	creative := maps.Clone(base)
	if creative == nil {
		creative = domain.Creative{}
	}
	creative[key] = value
	return domain.Variant{
		VariantID: fmt.Sprintf("%s_%d", t, idx),
		Creative:  creative,
	}
}

func renderTemplate(base domain.Creative, t domain.ABTestType, st style, picker Picker) string {
	var (
		table    map[style][]string
		fallback string
	)
	switch t {
	case domain.TestTypeHeadline:
		table, fallback = headlineTemplates, headlineProductFallback
	case domain.TestTypeCTA:
		table = ctaTemplates
	default:
		table, fallback = bodyTemplates, bodyProductFallback
	}

	options, ok := table[st]
	if !ok {
		options = table[styleDefault]
	}
	tmpl := options[picker.IntN(len(options))]

	product := strings.TrimSpace(base["product_name"])
	if product == "" {
		product = fallback
	}
	return strings.ReplaceAll(tmpl, "{product}", product)
}
