package feed_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchfeed/internal/app"
	"github.com/oggyb/matchfeed/internal/db"
	"github.com/oggyb/matchfeed/internal/service/feed"
)

func setupRouter(appCtx *app.AppContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	feed.NewRegistrar(appCtx).Register(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFeedEndpointValidation(t *testing.T) {
	router := setupRouter(setupApp(t))

	w := doJSON(t, router, http.MethodGet, "/v1/feed?user_id=abc&city_key=c1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/feed?user_id=100", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/feed?user_id=100&city_key=c1&page_size=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedEndpointServesPage(t *testing.T) {
	appCtx := setupApp(t)
	router := setupRouter(appCtx)

	seedFeedCity(t, appCtx, "c1", "", []botSpec{
		{-1, db.GenderFemale}, {-2, db.GenderMale},
	})

	w := doJSON(t, router, http.MethodGet, "/v1/feed?user_id=100&city_key=c1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status     string               `json:"status"`
		Candidates []feed.CandidateCard `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Candidates, 2)
}

// TestSwipeAlwaysRecordsView: a dismiss still marks the candidate seen,
// so it is gone from the next page.
func TestSwipeAlwaysRecordsView(t *testing.T) {
	appCtx := setupApp(t)
	router := setupRouter(appCtx)
	svc := feed.NewFeedService(appCtx)

	seedFeedCity(t, appCtx, "c1", "", []botSpec{
		{-1, db.GenderFemale}, {-2, db.GenderFemale}, {-3, db.GenderFemale},
	})

	w := doJSON(t, router, http.MethodPost, "/v1/swipes", gin.H{
		"actor_user_id": 100, "profile_id": -1, "liked": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	page, err := svc.GetPage(context.Background(), 100, "c1", 10, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{-2, -3}, cardIDs(page))
}

func TestSwipeLikeReportsMutual(t *testing.T) {
	appCtx := setupApp(t)
	router := setupRouter(appCtx)

	w := doJSON(t, router, http.MethodPost, "/v1/swipes", gin.H{
		"actor_user_id": 2, "profile_id": 1, "liked": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/swipes", gin.H{
		"actor_user_id": 1, "profile_id": 2, "liked": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		NewLike bool `json:"new_like"`
		Mutual  bool `json:"mutual"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.NewLike)
	assert.True(t, resp.Mutual)
}

func TestPreferenceEndpoint(t *testing.T) {
	appCtx := setupApp(t)
	router := setupRouter(appCtx)

	w := doJSON(t, router, http.MethodPut, "/v1/preferences", gin.H{
		"user_id": 100, "gender_filter": "female", "payment_filter": "self_pays",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/v1/preferences", gin.H{
		"user_id": 100, "gender_filter": "aliens",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
