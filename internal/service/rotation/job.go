package rotation

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/oggyb/matchfeed/internal/app"
	svcErr "github.com/oggyb/matchfeed/internal/errors"
	"github.com/oggyb/matchfeed/internal/repository"
	"gorm.io/gorm"
)

// Run statuses.
const (
	StatusRotated = "rotated"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Result describes one city's rotation outcome.
type Result struct {
	CityKey      string `json:"city_key"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	ActiveMale   int    `json:"active_male"`
	ActiveFemale int    `json:"active_female"`
	Total        int    `json:"total"`
	Error        string `json:"error,omitempty"`
}

// Service runs the daily rotation: select who is active, build the
// canonical order, commit both as one transaction per city. At most one
// run per (city, date) goes through; the redis lock rejects the rest.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
	orders   *repository.OrderRepository
}

// NewService creates the rotation service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
		orders:   repository.NewOrderRepository(appCtx.DB),
	}
}

// RunCity rotates one city for the given date key.
//
// Behavior:
//   - Unknown city → NotFound.
//   - Lock already held for (city, date) → Status "skipped", no mutation.
//   - Fewer synthetic profiles than quota → partial fill, not an error;
//     a gender with zero profiles simply contributes nothing.
//   - Commit is all-or-nothing; on commit failure the lock is released so
//     an operator retry the same day can go through.
func (s *Service) RunCity(ctx context.Context, cityKey, date string) (Result, error) {
	res := Result{CityKey: cityKey, Date: date}

	quota, err := s.profiles.CityQuota(ctx, cityKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, svcErr.NotFound("city is not configured for rotation")
		}
		return res, err
	}

	ok, err := s.appCtx.RedisCache.AcquireRotationLock(ctx, cityKey, date, s.appCtx.Config.Rotation.LockTTL)
	if err != nil {
		return res, err
	}
	if !ok {
		s.appCtx.Logger.Info("rotation already ran, skipping", "city", cityKey, "date", date)
		res.Status = StatusSkipped
		return res, nil
	}

	males, females, err := s.profiles.SyntheticByCity(ctx, cityKey)
	if err != nil {
		_ = s.appCtx.RedisCache.ReleaseRotationLock(ctx, cityKey, date)
		return res, err
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	activeMale := pickActive(r, males, quota.QuotaPerGender)
	activeFemale := pickActive(r, females, quota.QuotaPerGender)
	ordered := buildOrder(r, activeMale, activeFemale)

	if err := s.orders.CommitRotation(ctx, cityKey, date, ordered); err != nil {
		_ = s.appCtx.RedisCache.ReleaseRotationLock(ctx, cityKey, date)
		s.appCtx.Logger.Error("rotation commit failed", "city", cityKey, "date", date, "err", err)
		return res, err
	}

	res.Status = StatusRotated
	res.ActiveMale = len(activeMale)
	res.ActiveFemale = len(activeFemale)
	res.Total = len(ordered)

	s.appCtx.Logger.Info("rotation committed",
		"city", cityKey,
		"date", date,
		"active_male", res.ActiveMale,
		"active_female", res.ActiveFemale,
		"total", res.Total,
	)
	return res, nil
}

// RunAll rotates every configured city for the date key, higher tiers
// first. A failing city is recorded and logged but does not stop the rest;
// per-city errors surface in the results for the operator.
func (s *Service) RunAll(ctx context.Context, date string) ([]Result, error) {
	quotas, err := s.profiles.CityQuotas(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(quotas))
	for _, q := range quotas {
		res, err := s.RunCity(ctx, q.CityKey, date)
		if err != nil {
			res.Status = StatusFailed
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

// IsConfigured reports whether a canonical order exists for (city, date).
func (s *Service) IsConfigured(ctx context.Context, cityKey, date string) (bool, error) {
	return s.orders.IsConfigured(ctx, cityKey, date)
}
