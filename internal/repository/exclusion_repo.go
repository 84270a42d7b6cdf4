package repository

import (
	"context"
	"errors"

	"github.com/oggyb/matchfeed/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExclusionRepository owns all writes to likes and daily views, plus reads
// of the exclusion/preference state the feed filter consumes.
type ExclusionRepository struct {
	db *gorm.DB
}

// NewExclusionRepository creates a new repository bound to the given DB connection.
func NewExclusionRepository(database *gorm.DB) *ExclusionRepository {
	return &ExclusionRepository{db: database}
}

// LikedSet returns every profile ID the user has ever liked, as a set.
// Fetched once per feed request so filtering needs no per-candidate lookups.
func (r *ExclusionRepository) LikedSet(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ?", userID).
		Pluck("to_profile_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// ViewedSet returns every profile ID already shown to the user on date.
func (r *ExclusionRepository) ViewedSet(ctx context.Context, userID int64, date string) (map[int64]struct{}, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&db.ProfileView{}).
		Where("user_id = ? AND view_date = ?", userID, date).
		Pluck("profile_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// Preference returns the user's declared filters, or the any/any defaults
// when no row exists.
func (r *ExclusionRepository) Preference(ctx context.Context, userID int64) (db.UserPreference, error) {
	var pref db.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.UserPreference{
			UserID:        userID,
			GenderFilter:  db.FilterAny,
			PaymentFilter: db.FilterAny,
		}, nil
	}
	return pref, err
}

// UpsertPreference writes the user's filters, overwriting any prior row.
func (r *ExclusionRepository) UpsertPreference(ctx context.Context, pref db.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gender_filter", "payment_filter"}),
		}).
		Create(&pref).Error
}

// RecordView marks a profile as shown to the user on date. Idempotent:
// a duplicate view is silently ignored.
func (r *ExclusionRepository) RecordView(ctx context.Context, userID, profileID int64, date string) error {
	view := db.ProfileView{
		UserID:    userID,
		ProfileID: profileID,
		ViewDate:  date,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error
}

// RecordLike appends a like if none exists for the pair. Returns whether
// this call created a new like; a duplicate is not an error.
func (r *ExclusionRepository) RecordLike(ctx context.Context, fromUserID, toProfileID int64) (bool, error) {
	like := db.Like{
		FromUserID:  fromUserID,
		ToProfileID: toProfileID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasLiked checks whether a like row (from -> to) exists.
func (r *ExclusionRepository) HasLiked(ctx context.Context, fromUserID, toProfileID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ? AND to_profile_id = ?", fromUserID, toProfileID).
		Count(&count).Error
	return count > 0, err
}

// CheckMutual reports whether both (a -> b) and (b -> a) likes exist.
func (r *ExclusionRepository) CheckMutual(ctx context.Context, a, b int64) (bool, error) {
	ab, err := r.HasLiked(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return r.HasLiked(ctx, b, a)
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
