package feed

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/oggyb/matchfeed/internal/app"
	"github.com/oggyb/matchfeed/internal/db"
	svcErr "github.com/oggyb/matchfeed/internal/errors"
	"github.com/oggyb/matchfeed/internal/repository"
	"github.com/oggyb/matchfeed/internal/utils/pagination"
)

// Status distinguishes "rotation never ran for this city today" from an
// ordinary (possibly exhausted) feed. Neither is an error.
type Status string

const (
	StatusOK           Status = "ok"
	StatusUnconfigured Status = "unconfigured"
)

const defaultPageSize = 10

// CandidateCard carries the denormalized fields needed to render one
// candidate. MediaRef is empty when the profile has no display photo.
type CandidateCard struct {
	ID                int64  `json:"id"`
	DisplayName       string `json:"display_name"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	CityDisplayText   string `json:"city_display_text"`
	PaymentPreference string `json:"payment_preference"`
	MediaRef          string `json:"media_ref,omitempty"`
}

// Page is one allocator response.
type Page struct {
	Status        Status
	Candidates    []CandidateCard
	NextPageToken string
}

// Service is the feed allocator: it walks the persisted canonical order
// for the day and filters it through the user's exclusion/preference
// snapshot. It owns no persisted state and mutates nothing, which is what
// makes repeated calls with unchanged state return identical pages.
type Service struct {
	appCtx     *app.AppContext
	profiles   *repository.ProfileRepository
	orders     *repository.OrderRepository
	exclusions *repository.ExclusionRepository
}

// NewFeedService creates the allocator with dependencies from AppContext.
func NewFeedService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		profiles:   repository.NewProfileRepository(appCtx.DB),
		orders:     repository.NewOrderRepository(appCtx.DB),
		exclusions: repository.NewExclusionRepository(appCtx.DB),
	}
}

// GetPage returns the next page of candidates for a user in one city.
//
// Behavior:
//   - Reads today's canonical order and the user's exclusion snapshot
//     concurrently, then streams through positions in ascending order,
//     keeping admitted profiles until pageSize are collected, the order is
//     exhausted, or the scan limit is hit.
//   - Missing order for (city, today) → empty page with StatusUnconfigured.
//   - A page that would contain exactly one candidate is returned empty:
//     a lone last card that vanishes on the next action reads as a bug to
//     the user, so one remaining candidate is treated as none.
func (s *Service) GetPage(ctx context.Context, userID int64, cityKey string, pageSize int, pageToken string) (Page, error) {
	return s.getPage(ctx, userID, []string{cityKey}, pageSize, pageToken)
}

// GetPageNearby is the explicit multi-city mode: it merges the canonical
// orders of the home city and its configured adjacent cities by
// round-robin, home city first, preserving each city's own order. All
// other semantics match GetPage.
func (s *Service) GetPageNearby(ctx context.Context, userID int64, cityKey string, pageSize int, pageToken string) (Page, error) {
	quota, err := s.profiles.CityQuota(ctx, cityKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Page{Status: StatusUnconfigured, Candidates: []CandidateCard{}}, nil
		}
		return Page{}, err
	}
	cities := append([]string{cityKey}, quota.Adjacent()...)
	return s.getPage(ctx, userID, cities, pageSize, pageToken)
}

func (s *Service) getPage(ctx context.Context, userID int64, cities []string, pageSize int, pageToken string) (Page, error) {
	cfg := s.appCtx.Config
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > cfg.Feed.PageSizeMax {
		pageSize = cfg.Feed.PageSizeMax
	}
	// Hard bound on how many order entries one call may examine, so a
	// user who has excluded almost everything still gets an answer in
	// one bounded scan.
	scanLimit := cfg.Feed.ScanFactor * pageSize

	cursor, err := pagination.Decode(pageToken)
	if err != nil {
		return Page{}, svcErr.InvalidArgument(err.Error())
	}

	homeCity := cities[0]
	today := db.DateKey(time.Now())

	// The order read and the exclusion-state read are independent;
	// issue them concurrently and join before filtering.
	var (
		snap     *snapshot
		quotas   map[string]db.CityQuota
		cityRows = make([][]db.DailyOrderEntry, len(cities))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = loadSnapshot(gctx, s.exclusions, userID, today, cities)
		return err
	})
	g.Go(func() error {
		var err error
		quotas, err = s.profiles.CityQuotasByKeys(gctx, cities)
		return err
	})
	for i, city := range cities {
		g.Go(func() error {
			entries, err := s.orders.Entries(gctx, city, today, cursor.Next(city), scanLimit)
			if err != nil {
				return err
			}
			cityRows[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	if len(cityRows[0]) == 0 {
		configured, err := s.orders.IsConfigured(ctx, homeCity, today)
		if err != nil {
			return Page{}, err
		}
		if !configured {
			return Page{Status: StatusUnconfigured, Candidates: []CandidateCard{}}, nil
		}
	}

	var ids []int64
	for _, entries := range cityRows {
		for _, e := range entries {
			ids = append(ids, e.ProfileID)
		}
	}
	profileByID, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return Page{}, err
	}

	// Walk the merged order. next tracks, per city, the first position a
	// resumed call should scan.
	idx := make([]int, len(cities))
	next := make([]int, len(cities))
	for i, city := range cities {
		next[i] = cursor.Next(city)
	}

	cards := make([]CandidateCard, 0, pageSize)
	scanned := 0
	for scanned < scanLimit && len(cards) < pageSize {
		progressed := false
		for i := range cities {
			if scanned >= scanLimit || len(cards) >= pageSize {
				break
			}
			if idx[i] >= len(cityRows[i]) {
				continue
			}
			e := cityRows[i][idx[i]]
			idx[i]++
			next[i] = e.Position + 1
			scanned++
			progressed = true

			p, ok := profileByID[e.ProfileID]
			if !ok || !snap.admit(&p) {
				continue
			}
			cards = append(cards, s.card(&p, quotas))
		}
		if !progressed {
			break
		}
	}

	// One remaining candidate renders as "no more candidates".
	if len(cards) == 1 {
		return Page{Status: StatusOK, Candidates: []CandidateCard{}}, nil
	}

	more := false
	for i := range cities {
		if idx[i] < len(cityRows[i]) || len(cityRows[i]) == scanLimit {
			more = true
		}
	}

	token := ""
	if more {
		for i, city := range cities {
			cursor.Advance(city, next[i])
		}
		if token, err = pagination.Encode(cursor); err != nil {
			return Page{}, err
		}
	}

	return Page{Status: StatusOK, Candidates: cards, NextPageToken: token}, nil
}

func (s *Service) card(p *db.Profile, quotas map[string]db.CityQuota) CandidateCard {
	cityText := p.CityKey
	if q, ok := quotas[p.CityKey]; ok && q.DisplayName != "" {
		cityText = q.DisplayName
	}
	return CandidateCard{
		ID:                p.ID,
		DisplayName:       p.DisplayName,
		Age:               p.Age,
		Gender:            p.Gender,
		CityDisplayText:   cityText,
		PaymentPreference: p.PaymentPreference,
		MediaRef:          p.PhotoRef,
	}
}
