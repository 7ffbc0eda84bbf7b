// Package memory holds process-local repositories used when no database is
// configured. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"adPilot/domain"
)

const (
	defaultFeedbackLimit       = 500
	defaultRecommendationLimit = 20
)

type CatalogRepository struct {
	mu       sync.RWMutex
	brands   map[string]domain.Brand
	products map[string]domain.Product
	audience []domain.AudienceRecord
	now      func() time.Time
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		brands:   make(map[string]domain.Brand),
		products: make(map[string]domain.Product),
		now:      time.Now,
	}
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brands[brand.ID]; ok {
		return fmt.Errorf("brand %q already exists: %w", brand.ID, domain.ErrInvalidInput)
	}
	if brand.CreatedAt.IsZero() {
		brand.CreatedAt = r.now()
	}
	r.brands[brand.ID] = *brand
	return nil
}

func (r *CatalogRepository) FindBrandByID(ctx context.Context, id string) (domain.Brand, error) {
	if err := ctx.Err(); err != nil {
		return domain.Brand{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.brands[id]
	if !ok {
		return domain.Brand{}, fmt.Errorf("brand %q: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("product %q already exists: %w", product.ID, domain.ErrInvalidInput)
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = r.now()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// FindProductsByBrand returns the brand's products ordered by name.
func (r *CatalogRepository) FindProductsByBrand(ctx context.Context, brandID string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.BrandID == brandID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) CreateAudienceRecords(ctx context.Context, records []domain.AudienceRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		r.audience = append(r.audience, rec)
	}
	return nil
}

// FindAudienceRecords returns rows for brandID in insertion order. An empty
// segment matches every row.
func (r *CatalogRepository) FindAudienceRecords(ctx context.Context, brandID, segment string) ([]domain.AudienceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.AudienceRecord
	for _, rec := range r.audience {
		if rec.BrandID != brandID {
			continue
		}
		if segment != "" && rec.Segment != segment {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type FeedbackRepository struct {
	mu     sync.RWMutex
	events []domain.FeedbackEvent
	now    func() time.Time
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{now: time.Now}
}

func (r *FeedbackRepository) Create(ctx context.Context, event *domain.FeedbackEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *FeedbackRepository) FindByAd(ctx context.Context, adID string) ([]domain.FeedbackEvent, error) {
	return r.findBy(ctx, func(ev domain.FeedbackEvent) bool { return ev.AdID == adID })
}

func (r *FeedbackRepository) FindByChannel(ctx context.Context, ch string) ([]domain.FeedbackEvent, error) {
	return r.findBy(ctx, func(ev domain.FeedbackEvent) bool { return ev.Channel == ch })
}

// findBy walks newest first and stops at defaultFeedbackLimit matches.
func (r *FeedbackRepository) findBy(ctx context.Context, match func(domain.FeedbackEvent) bool) ([]domain.FeedbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.FeedbackEvent, 0)
	for i := len(r.events) - 1; i >= 0 && len(out) < defaultFeedbackLimit; i-- {
		if match(r.events[i]) {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

type RecommendationRepository struct {
	mu     sync.RWMutex
	nextID uint
	snaps  []domain.ChannelRecommendationSnapshot
	now    func() time.Time
}

func NewRecommendationRepository() *RecommendationRepository {
	return &RecommendationRepository{now: time.Now}
}

func (r *RecommendationRepository) Create(ctx context.Context, snap *domain.ChannelRecommendationSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	snap.ID = r.nextID
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = r.now()
	}
	r.snaps = append(r.snaps, *snap)
	return nil
}

func (r *RecommendationRepository) FindByBrand(ctx context.Context, brandID string, limit int) ([]domain.ChannelRecommendationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ChannelRecommendationSnapshot, 0)
	for i := len(r.snaps) - 1; i >= 0 && len(out) < limit; i-- {
		if r.snaps[i].BrandID == brandID {
			out = append(out, r.snaps[i])
		}
	}
	return out, nil
}
