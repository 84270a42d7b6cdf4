package feed

import (
	"context"
	"time"

	"github.com/oggyb/matchfeed/internal/app"
	"github.com/oggyb/matchfeed/internal/db"
	svcErr "github.com/oggyb/matchfeed/internal/errors"
	"github.com/oggyb/matchfeed/internal/repository"
)

// Recorder persists swipe outcomes. Its writes are what the next GetPage
// call's exclusion snapshot picks up — no coupling to the allocator beyond
// the store.
type Recorder struct {
	appCtx     *app.AppContext
	exclusions *repository.ExclusionRepository
}

// NewRecorder creates the swipe outcome recorder.
func NewRecorder(appCtx *app.AppContext) *Recorder {
	return &Recorder{
		appCtx:     appCtx,
		exclusions: repository.NewExclusionRepository(appCtx.DB),
	}
}

// RecordView marks a shown candidate as seen today, like or dislike alike,
// so it never reappears the same day. Idempotent.
func (r *Recorder) RecordView(ctx context.Context, userID, profileID int64) error {
	return r.exclusions.RecordView(ctx, userID, profileID, db.DateKey(time.Now()))
}

// RecordLike appends a like and reports whether it is new. Re-liking an
// already-liked profile is not an error.
func (r *Recorder) RecordLike(ctx context.Context, fromUserID, toProfileID int64) (bool, error) {
	if fromUserID == toProfileID {
		return false, svcErr.InvalidArgument("cannot like yourself")
	}
	return r.exclusions.RecordLike(ctx, fromUserID, toProfileID)
}

// CheckMutual reports whether both directions of a like exist. The caller
// decides what to do with a match.
func (r *Recorder) CheckMutual(ctx context.Context, a, b int64) (bool, error) {
	return r.exclusions.CheckMutual(ctx, a, b)
}

// UpsertPreference stores the user's feed filters after validation.
func (r *Recorder) UpsertPreference(ctx context.Context, pref db.UserPreference) error {
	return r.exclusions.UpsertPreference(ctx, pref)
}
