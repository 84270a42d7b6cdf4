package repository

import (
	"context"

	"github.com/oggyb/matchfeed/internal/db"
	"gorm.io/gorm"
)

// OrderRepository reads the canonical per-city daily ordering and commits
// rotation results.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new repository bound to the given DB connection.
func NewOrderRepository(database *gorm.DB) *OrderRepository {
	return &OrderRepository{db: database}
}

// Entries returns order rows for (city, date) with position >= fromPos,
// position ascending, at most limit rows. limit <= 0 means no limit.
func (r *OrderRepository) Entries(ctx context.Context, cityKey, date string, fromPos, limit int) ([]db.DailyOrderEntry, error) {
	var entries []db.DailyOrderEntry
	query := r.db.WithContext(ctx).
		Where("city_key = ? AND date = ? AND position >= ?", cityKey, date, fromPos).
		Order("position")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// IsConfigured reports whether rotation has produced an order for
// (city, date). This is how callers distinguish "rotation not run yet"
// from "feed exhausted".
func (r *OrderRepository) IsConfigured(ctx context.Context, cityKey, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.DailyOrderEntry{}).
		Where("city_key = ? AND date = ?", cityKey, date).
		Count(&count).Error
	return count > 0, err
}

// CommitRotation applies one city's rotation result as a single logical
// transaction: clear the city's previous live markers, mark the chosen
// profiles live for date, and replace the canonical order with orderedIDs
// at positions 0..N-1. Either everything commits or nothing does, so
// readers never observe a torn rotation.
func (r *OrderRepository) CommitRotation(ctx context.Context, cityKey, date string, orderedIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Profile{}).
			Where("city_key = ? AND kind = ?", cityKey, db.KindSynthetic).
			Update("active_date", "").Error; err != nil {
			return err
		}

		if len(orderedIDs) > 0 {
			if err := tx.Model(&db.Profile{}).
				Where("id IN ?", orderedIDs).
				Update("active_date", date).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("city_key = ? AND date = ?", cityKey, date).
			Delete(&db.DailyOrderEntry{}).Error; err != nil {
			return err
		}

		if len(orderedIDs) == 0 {
			return nil
		}

		entries := make([]db.DailyOrderEntry, len(orderedIDs))
		for i, id := range orderedIDs {
			entries[i] = db.DailyOrderEntry{
				CityKey:   cityKey,
				Date:      date,
				ProfileID: id,
				Position:  i,
			}
		}
		return tx.Create(&entries).Error
	})
}
