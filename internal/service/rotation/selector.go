package rotation

import (
	"math/rand"

	"github.com/oggyb/matchfeed/internal/db"
)

// pickActive returns a uniformly random subset of size min(len(profiles),
// quota). Every eligible profile has equal chance each day — no weighting
// by recency, so no profile becomes a permanent favorite.
func pickActive(r *rand.Rand, profiles []db.Profile, quota int) []db.Profile {
	if quota <= 0 {
		return nil
	}
	if len(profiles) <= quota {
		out := make([]db.Profile, len(profiles))
		copy(out, profiles)
		return out
	}
	out := make([]db.Profile, 0, quota)
	for _, i := range r.Perm(len(profiles))[:quota] {
		out = append(out, profiles[i])
	}
	return out
}

// buildOrder concatenates the active subsets and shuffles once, producing
// the canonical order for the day. All feed randomness happens here;
// query-time reads are strictly deterministic.
func buildOrder(r *rand.Rand, active ...[]db.Profile) []int64 {
	var ids []int64
	for _, group := range active {
		for _, p := range group {
			ids = append(ids, p.ID)
		}
	}
	r.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}
