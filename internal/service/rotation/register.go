package rotation

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchfeed/internal/app"
)

// Registrar ties the rotation service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
	svc    *Service
}

// NewRegistrar creates a new Registrar for the rotation service
func NewRegistrar(appCtx *app.AppContext, svc *Service) *Registrar {
	return &Registrar{appCtx: appCtx, svc: svc}
}

// Register attaches the rotation routes to the router
func (r *Registrar) Register(router gin.IRouter) {
	v1 := router.Group("/v1/rotation")
	v1.POST("/run", r.svc.handleRun)
	v1.GET("/status", r.svc.handleStatus)
}
