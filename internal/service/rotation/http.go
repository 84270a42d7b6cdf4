package rotation

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchfeed/internal/db"
	svcErr "github.com/oggyb/matchfeed/internal/errors"
)

type runRequest struct {
	CityKey string `json:"city_key"`
	Date    string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// handleRun triggers rotation on demand: one city when city_key is set,
// all configured cities otherwise. Date defaults to today.
func (s *Service) handleRun(c *gin.Context) {
	// empty body means "all cities, today"
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		svcErr.JSON(c, svcErr.InvalidArgument("invalid rotation request: "+err.Error()))
		return
	}

	date := req.Date
	if date == "" {
		date = db.DateKey(time.Now())
	}

	if req.CityKey != "" {
		res, err := s.RunCity(c.Request.Context(), req.CityKey, date)
		if err != nil {
			svcErr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": []Result{res}})
		return
	}

	results, err := s.RunAll(c.Request.Context(), date)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleStatus reports whether rotation has produced an order for a city.
// This is the caller's way to tell "unconfigured" apart from "exhausted".
func (s *Service) handleStatus(c *gin.Context) {
	cityKey := c.Query("city_key")
	if cityKey == "" {
		svcErr.JSON(c, svcErr.InvalidArgument("city_key is required"))
		return
	}
	date := c.DefaultQuery("date", db.DateKey(time.Now()))

	configured, err := s.IsConfigured(c.Request.Context(), cityKey, date)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"city_key":   cityKey,
		"date":       date,
		"configured": configured,
	})
}
