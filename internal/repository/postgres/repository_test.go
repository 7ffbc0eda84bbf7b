package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adPilot/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestFeedbackRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(`INSERT INTO "feedback_events"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &domain.FeedbackEvent{
		ID:          "fb_1",
		AdID:        "ad_1",
		Channel:     "instagram",
		Impressions: 1000,
		Clicks:      25,
		Attributes:  datatypes.JSONMap{"headline": "Go green"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_FindByAd(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	rows := sqlmock.NewRows([]string{"id", "ad_id", "channel", "impressions", "clicks", "ctr", "created_at"}).
		AddRow("fb_2", "ad_1", "tiktok", 200, 10, 0.05, time.Now()).
		AddRow("fb_1", "ad_1", "instagram", 1000, 25, 0.025, time.Now().Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "feedback_events" WHERE ad_id = \$1 ORDER BY created_at DESC`).
		WithArgs("ad_1", defaultFeedbackLimit).
		WillReturnRows(rows)

	events, err := repo.FindByAd(context.Background(), "ad_1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "fb_2", events[0].ID)
	assert.Equal(t, int64(25), events[1].Clicks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_FindBrandNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "brands" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindBrandByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_FindAudienceBySegment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "brand_id", "segment", "clicks_last_30d", "device"}).
		AddRow("a1", "b1", "gen_z", 7, "mobile")

	mock.ExpectQuery(`SELECT \* FROM "audience_records" WHERE brand_id = \$1 AND segment = \$2`).
		WithArgs("b1", "gen_z").
		WillReturnRows(rows)

	records, err := repo.FindAudienceRecords(context.Background(), "b1", "gen_z")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].ClicksLast30d)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecommendationRepository(db)

	mock.ExpectQuery(`INSERT INTO "channel_recommendations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	snap := &domain.ChannelRecommendationSnapshot{
		BrandID:     "b1",
		ProductID:   "p1",
		BestChannel: "linkedin",
		Payload:     datatypes.JSON(`{"best_channel":"linkedin"}`),
	}
	require.NoError(t, repo.Create(context.Background(), snap))
	assert.Equal(t, uint(42), snap.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositories_CancelledContext(t *testing.T) {
	db, _ := newMockDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCatalogRepository(db).FindProductByID(ctx, "p")
	assert.Error(t, err)
	_, err = NewFeedbackRepository(db).FindByChannel(ctx, "tiktok")
	assert.Error(t, err)
	_, err = NewRecommendationRepository(db).FindByBrand(ctx, "b", 0)
	assert.Error(t, err)
}
