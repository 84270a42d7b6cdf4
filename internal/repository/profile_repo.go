package repository

import (
	"context"

	"github.com/oggyb/matchfeed/internal/db"
	"gorm.io/gorm"
)

// ProfileRepository provides read access to profiles and the static city
// configuration.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByIDs fetches the given profiles in one query, keyed by ID. Missing
// IDs are simply absent from the result.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]db.Profile, error) {
	if len(ids) == 0 {
		return map[int64]db.Profile{}, nil
	}
	var profiles []db.Profile
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]db.Profile, len(profiles))
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

// SyntheticByCity returns all synthetic profiles of a city partitioned by
// gender. Profiles with an unspecified gender are not rotated.
func (r *ProfileRepository) SyntheticByCity(ctx context.Context, cityKey string) (males, females []db.Profile, err error) {
	var profiles []db.Profile
	if err := r.db.WithContext(ctx).
		Where("city_key = ? AND kind = ?", cityKey, db.KindSynthetic).
		Order("id").
		Find(&profiles).Error; err != nil {
		return nil, nil, err
	}
	for _, p := range profiles {
		switch p.Gender {
		case db.GenderMale:
			males = append(males, p)
		case db.GenderFemale:
			females = append(females, p)
		}
	}
	return males, females, nil
}

// CityQuota returns the rotation configuration for one city.
// gorm.ErrRecordNotFound means the city is not configured.
func (r *ProfileRepository) CityQuota(ctx context.Context, cityKey string) (db.CityQuota, error) {
	var quota db.CityQuota
	err := r.db.WithContext(ctx).
		Where("city_key = ?", cityKey).
		First(&quota).Error
	return quota, err
}

// CityQuotasByKeys fetches the configuration for the given cities in one
// query, keyed by city key. Unconfigured keys are absent from the result.
func (r *ProfileRepository) CityQuotasByKeys(ctx context.Context, keys []string) (map[string]db.CityQuota, error) {
	if len(keys) == 0 {
		return map[string]db.CityQuota{}, nil
	}
	var quotas []db.CityQuota
	if err := r.db.WithContext(ctx).
		Where("city_key IN ?", keys).
		Find(&quotas).Error; err != nil {
		return nil, err
	}
	out := make(map[string]db.CityQuota, len(quotas))
	for _, q := range quotas {
		out[q.CityKey] = q
	}
	return out, nil
}

// CityQuotas returns every configured city, tier order first so higher
// tiers rotate earlier in the daily job.
func (r *ProfileRepository) CityQuotas(ctx context.Context) ([]db.CityQuota, error) {
	var quotas []db.CityQuota
	err := r.db.WithContext(ctx).
		Order("tier, city_key").
		Find(&quotas).Error
	return quotas, err
}
