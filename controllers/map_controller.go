package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripatlas/api-go/mapview"
	"github.com/tripatlas/api-go/models"
	"github.com/tripatlas/api-go/types"
	"github.com/tripatlas/api-go/utils"
)

// MapController exposes the map surface lifecycle over HTTP. Each client
// map view gets its own explicitly owned Surface held by the injected store,
// so no view state hides in package globals.
type MapController struct {
	DB    *gorm.DB
	Store *mapview.Store
}

func NewMapController(db *gorm.DB, store *mapview.Store) *MapController {
	return &MapController{DB: db, Store: store}
}

// loadSurface re-fetches activities and the user's journey and applies both
// to the surface. This is the full refresh loop that follows every write.
func (mc *MapController) loadSurface(s *mapview.Surface, userID uint) error {
	var activities []*models.Activity
	if err := mc.DB.Order("created_at").Find(&activities).Error; err != nil {
		return err
	}
	if err := s.SetActivities(activities, userID); err != nil {
		return err
	}

	var mine []*models.Activity
	if err := mineFilter(mc.DB.Model(&models.Activity{}), userID).Find(&mine).Error; err != nil {
		return err
	}
	return s.SetJourney(mine)
}

func (mc *MapController) respondState(c *gin.Context, s *mapview.Surface) {
	state, err := s.State()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Map session not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// CreateSession godoc
// @Summary Open a map view session
// @Tags map
// @Produce json
// @Success 200 {object} mapview.State
// @Router /map/sessions [post]
func (mc *MapController) CreateSession(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	surface, err := mc.Store.Create(uuid.New().String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create map session"})
		return
	}

	if err := mc.loadSurface(surface, user.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading activities"})
		return
	}

	mc.respondState(c, surface)
}

// GetSession godoc
// @Summary Get the current state of a map session
// @Tags map
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} mapview.State
// @Router /map/sessions/{id} [get]
func (mc *MapController) GetSession(c *gin.Context) {
	surface := mc.Store.Get(c.Param("id"))
	if surface == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Map session not found"})
		return
	}
	mc.respondState(c, surface)
}

// Click godoc
// @Summary Place the selected-location marker
// @Description Moves the selection, recenters and raises the zoom to at least 16
// @Tags map
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} mapview.State
// @Router /map/sessions/{id}/click [post]
func (mc *MapController) Click(c *gin.Context) {
	surface := mc.Store.Get(c.Param("id"))
	if surface == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Map session not found"})
		return
	}

	var req types.MapClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}

	if err := surface.Click(*req.Lat, *req.Lng); err != nil {
		mc.surfaceError(c, err)
		return
	}
	mc.respondState(c, surface)
}

// ClusterClick godoc
// @Summary Drill into a cluster marker
// @Description Recenters on the cluster and zooms in by exactly two levels
// @Tags map
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} mapview.State
// @Router /map/sessions/{id}/cluster-click [post]
func (mc *MapController) ClusterClick(c *gin.Context) {
	surface := mc.Store.Get(c.Param("id"))
	if surface == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Map session not found"})
		return
	}

	var req types.MapClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}

	if err := surface.ClusterClick(*req.Lat, *req.Lng); err != nil {
		mc.surfaceError(c, err)
		return
	}
	mc.respondState(c, surface)
}

// RefreshSession godoc
// @Summary Re-fetch activities and redraw the session's markers and journey
// @Tags map
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} mapview.State
// @Router /map/sessions/{id}/refresh [post]
func (mc *MapController) RefreshSession(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	surface := mc.Store.Get(c.Param("id"))
	if surface == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Map session not found"})
		return
	}

	if err := mc.loadSurface(surface, user.UserID); err != nil {
		if err == mapview.ErrSurfaceClosed {
			mc.surfaceError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading activities"})
		return
	}
	mc.respondState(c, surface)
}

// DeleteSession godoc
// @Summary Tear down a map session
// @Tags map
// @Param id path string true "Session ID"
// @Success 204
// @Router /map/sessions/{id} [delete]
func (mc *MapController) DeleteSession(c *gin.Context) {
	mc.Store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (mc *MapController) surfaceError(c *gin.Context, err error) {
	switch err {
	case mapview.ErrSurfaceClosed:
		c.JSON(http.StatusNotFound, gin.H{"error": "Map session not found"})
	case mapview.ErrInvalidPoint:
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Map session error"})
	}
}
