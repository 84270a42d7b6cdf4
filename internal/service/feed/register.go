package feed

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchfeed/internal/app"
)

// Registrar ties the feed allocator and swipe recorder into the HTTP server
type Registrar struct {
	appCtx   *app.AppContext
	svc      *Service
	recorder *Recorder
}

// NewRegistrar creates a new Registrar for the feed service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{
		appCtx:   appCtx,
		svc:      NewFeedService(appCtx),
		recorder: NewRecorder(appCtx),
	}
}

// Register attaches the feed routes to the router
func (r *Registrar) Register(router gin.IRouter) {
	v1 := router.Group("/v1")
	v1.GET("/feed", r.svc.handleGetFeed)
	v1.POST("/swipes", r.recorder.handleSwipe)
	v1.PUT("/preferences", r.recorder.handlePutPreference)
}
