package feed

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchfeed/internal/db"
	svcErr "github.com/oggyb/matchfeed/internal/errors"
)

type feedResponse struct {
	Status        Status          `json:"status"`
	Candidates    []CandidateCard `json:"candidates"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

// handleGetFeed serves GET /v1/feed.
func (s *Service) handleGetFeed(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		svcErr.JSON(c, svcErr.InvalidArgument("user_id must be a positive integer"))
		return
	}
	cityKey := c.Query("city_key")
	if cityKey == "" {
		svcErr.JSON(c, svcErr.InvalidArgument("city_key is required"))
		return
	}

	pageSize := 0
	if raw := c.Query("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize <= 0 {
			svcErr.JSON(c, svcErr.InvalidArgument("page_size must be a positive integer"))
			return
		}
	}
	pageToken := c.Query("page_token")

	s.appCtx.Logger.Debug("feed requested",
		"user", userID, "city", cityKey, "page_size", pageSize, "nearby", c.Query("nearby"))

	var page Page
	if c.Query("nearby") == "1" {
		page, err = s.GetPageNearby(c.Request.Context(), userID, cityKey, pageSize, pageToken)
	} else {
		page, err = s.GetPage(c.Request.Context(), userID, cityKey, pageSize, pageToken)
	}
	if err != nil {
		s.appCtx.Logger.Error("feed allocation failed", "user", userID, "city", cityKey, "err", err)
		svcErr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, feedResponse{
		Status:        page.Status,
		Candidates:    page.Candidates,
		NextPageToken: page.NextPageToken,
	})
}

type swipeRequest struct {
	ActorUserID int64 `json:"actor_user_id" binding:"required,gt=0"`
	ProfileID   int64 `json:"profile_id" binding:"required"`
	Liked       bool  `json:"liked"`
}

// handleSwipe serves POST /v1/swipes. The view is recorded for every
// swipe, like or dismiss, so the candidate never reappears today.
func (r *Recorder) handleSwipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, svcErr.InvalidArgument("invalid swipe request: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	if err := r.RecordView(ctx, req.ActorUserID, req.ProfileID); err != nil {
		svcErr.JSON(c, err)
		return
	}

	newLike := false
	mutual := false
	if req.Liked {
		var err error
		newLike, err = r.RecordLike(ctx, req.ActorUserID, req.ProfileID)
		if err != nil {
			svcErr.JSON(c, err)
			return
		}
		mutual, err = r.CheckMutual(ctx, req.ActorUserID, req.ProfileID)
		if err != nil {
			svcErr.JSON(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"new_like": newLike, "mutual": mutual})
}

type preferenceRequest struct {
	UserID        int64  `json:"user_id" binding:"required,gt=0"`
	GenderFilter  string `json:"gender_filter" binding:"omitempty,oneof=any male female"`
	PaymentFilter string `json:"payment_filter" binding:"omitempty,oneof=any self_pays requester_pays other_pays"`
}

// handlePutPreference serves PUT /v1/preferences.
func (r *Recorder) handlePutPreference(c *gin.Context) {
	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, svcErr.InvalidArgument("invalid preference request: "+err.Error()))
		return
	}
	if req.GenderFilter == "" {
		req.GenderFilter = db.FilterAny
	}
	if req.PaymentFilter == "" {
		req.PaymentFilter = db.FilterAny
	}

	pref := db.UserPreference{
		UserID:        req.UserID,
		GenderFilter:  req.GenderFilter,
		PaymentFilter: req.PaymentFilter,
	}
	if err := r.UpsertPreference(c.Request.Context(), pref); err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
