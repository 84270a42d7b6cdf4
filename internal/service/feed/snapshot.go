package feed

import (
	"context"

	"github.com/oggyb/matchfeed/internal/db"
	"github.com/oggyb/matchfeed/internal/repository"
)

// snapshot is one user's exclusion and preference state, fetched once per
// request. admit is a pure function of this already-fetched state, so the
// allocator's scan does no per-candidate I/O.
type snapshot struct {
	userID int64
	date   string
	cities map[string]struct{}
	liked  map[int64]struct{}
	viewed map[int64]struct{}
	pref   db.UserPreference
}

func loadSnapshot(ctx context.Context, exclusions *repository.ExclusionRepository, userID int64, date string, cityKeys []string) (*snapshot, error) {
	liked, err := exclusions.LikedSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	viewed, err := exclusions.ViewedSet(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	pref, err := exclusions.Preference(ctx, userID)
	if err != nil {
		return nil, err
	}

	cities := make(map[string]struct{}, len(cityKeys))
	for _, k := range cityKeys {
		cities[k] = struct{}{}
	}

	return &snapshot{
		userID: userID,
		date:   date,
		cities: cities,
		liked:  liked,
		viewed: viewed,
		pref:   pref,
	}, nil
}

// admit decides whether p may appear in this user's feed:
// never the user's own profile, nothing already liked or viewed today,
// synthetic profiles only from the requested cities and only while live
// for today, and both declared preference filters must match.
func (s *snapshot) admit(p *db.Profile) bool {
	if p.ID == s.userID {
		return false
	}
	if _, ok := s.liked[p.ID]; ok {
		return false
	}
	if _, ok := s.viewed[p.ID]; ok {
		return false
	}
	if p.Kind == db.KindSynthetic {
		if _, ok := s.cities[p.CityKey]; !ok {
			return false
		}
		if p.ActiveDate != s.date {
			return false
		}
	}
	if s.pref.GenderFilter != db.FilterAny && p.Gender != s.pref.GenderFilter {
		return false
	}
	if s.pref.PaymentFilter != db.FilterAny && p.PaymentPreference != s.pref.PaymentFilter {
		return false
	}
	return true
}
