package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tripatlas/api-go/geo"
	"github.com/tripatlas/api-go/mapview"
	"github.com/tripatlas/api-go/models"
	"github.com/tripatlas/api-go/types"
	"github.com/tripatlas/api-go/utils"
)

type ActivityController struct {
	DB *gorm.DB
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{DB: db}
}

// mineFilter scopes a query to activities the user hosts or has joined.
func mineFilter(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("host_id = ? OR ? = ANY(participants)", userID, int64(userID))
}

// ListActivities godoc
// @Summary List activities, optionally scoped to the current user
// @Tags activities
// @Accept json
// @Produce json
// @Param mine query boolean false "Only activities the user hosts or joined"
// @Success 200 {object} map[string]interface{}
// @Router /activities [get]
func (ac *ActivityController) ListActivities(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var query types.ListActivitiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := ac.DB.Model(&models.Activity{})
	if query.Mine {
		db = mineFilter(db, user.UserID)
	}

	var activities []models.Activity
	if err := db.Order("created_at").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities"})
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// GetActivity godoc
// @Summary Get a single activity
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} models.Activity
// @Router /activities/{id} [get]
func (ac *ActivityController) GetActivity(c *gin.Context) {
	id := c.Param("id")

	var activity models.Activity
	if err := ac.DB.First(&activity, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// CreateActivity godoc
// @Summary Create an activity at a selected map coordinate
// @Tags activities
// @Accept json
// @Produce json
// @Success 201 {object} models.Activity
// @Router /activities [post]
func (ac *ActivityController) CreateActivity(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req types.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// "name" is the legacy field name, "title" wins when both are sent
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(req.Name)
	}
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if req.Location == nil || req.Location.Lat == nil || req.Location.Lng == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location.lat and location.lng are required"})
		return
	}
	point := geo.Point{Lat: *req.Location.Lat, Lng: *req.Location.Lng}
	if !point.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is out of range"})
		return
	}

	var dateTime *time.Time
	if req.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.DateTime)
		if err != nil {
			// Try fallback formats
			layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
			for _, layout := range layouts {
				if t, e := time.Parse(layout, req.DateTime); e == nil {
					parsed = t
					err = nil
					break
				}
			}
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTime format, use RFC3339 or YYYY-MM-DD"})
				return
			}
		}
		dateTime = &parsed
	}

	activity := models.Activity{
		Title:          title,
		Description:    req.Description,
		Latitude:       point.Lat,
		Longitude:      point.Lng,
		HostID:         user.UserID,
		Participants:   pq.Int64Array{},
		Types:          pq.StringArray(req.Types),
		Tags:           pq.StringArray(req.Tags),
		Budget:         req.Budget,
		Duration:       req.Duration,
		LocationType:   req.LocationType,
		SocialVibe:     req.SocialVibe,
		DateTime:       dateTime,
		SharedExpenses: req.SharedExpenses,
	}

	tx := ac.DB.Begin()

	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create activity"})
		return
	}

	entry := models.AuditLog{
		UserID:     user.UserID,
		ActivityID: activity.ID,
		Action:     models.ActionActivityCreated,
		Latitude:   activity.Latitude,
		Longitude:  activity.Longitude,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create activity"})
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, activity)
}

// JoinActivity godoc
// @Summary Join an existing activity
// @Description Idempotent: joining twice, or as the host, leaves the participant set unchanged
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} map[string]interface{}
// @Router /activities/{id}/join [patch]
func (ac *ActivityController) JoinActivity(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id := c.Param("id")

	var activity models.Activity
	if err := ac.DB.First(&activity, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	// Hosts are never inserted into participants: host status derives from
	// host_id equality alone.
	if activity.HostID == user.UserID || activity.HasParticipant(user.UserID) {
		c.JSON(http.StatusOK, gin.H{"joined": false, "activity": activity})
		return
	}

	tx := ac.DB.Begin()

	participants := append(activity.Participants, int64(user.UserID))
	if err := tx.Model(&activity).Update("participants", participants).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join activity"})
		return
	}

	entry := models.AuditLog{
		UserID:     user.UserID,
		ActivityID: activity.ID,
		Action:     models.ActionActivityJoined,
		Latitude:   activity.Latitude,
		Longitude:  activity.Longitude,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join activity"})
		return
	}

	tx.Commit()

	activity.Participants = participants
	c.JSON(http.StatusOK, gin.H{"joined": true, "activity": activity})
}

// GetMarkers godoc
// @Summary Get the marker render plan for the current zoom level
// @Description Renders one marker per activity up to the clustering threshold, grid clusters above it
// @Tags activities
// @Produce json
// @Param zoom query integer true "Map zoom level (1-20)"
// @Param mine query boolean false "Only activities the user hosts or joined"
// @Success 200 {object} map[string]interface{}
// @Router /activities/markers [get]
func (ac *ActivityController) GetMarkers(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var query types.MarkersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		// older clients send zoomLevel instead of zoom; anything else
		// that fails binding is a plain bad request
		if c.Query("zoomLevel") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query.Zoom = utils.ParseInt(c.Query("zoomLevel"))
		query.Mine = utils.ParseBool(c.Query("mine"))
		if query.Zoom < 1 || query.Zoom > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "zoom must be between 1 and 20"})
			return
		}
	}

	db := ac.DB.Model(&models.Activity{})
	if query.Mine {
		db = mineFilter(db, user.UserID)
	}

	var activities []*models.Activity
	if err := db.Order("created_at").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities"})
		return
	}

	sites := make([]geo.Site, len(activities))
	for i, a := range activities {
		sites[i] = a
	}
	plan := geo.BuildRenderPlan(sites, query.Zoom)
	markers := mapview.PlanToMarkers(plan, user.UserID)

	c.JSON(http.StatusOK, gin.H{
		"markers":   markers,
		"zoom":      query.Zoom,
		"clustered": len(activities) > geo.ClusterThreshold,
	})
}

// GetJourney godoc
// @Summary Get the user's travel path polyline
// @Description Points ordered by creation time; fewer than two activities yield an empty path
// @Tags activities
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /activities/journey [get]
func (ac *ActivityController) GetJourney(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var activities []models.Activity
	if err := mineFilter(ac.DB.Model(&models.Activity{}), user.UserID).Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities"})
		return
	}

	waypoints := make([]geo.Waypoint, len(activities))
	for i, a := range activities {
		waypoints[i] = geo.Waypoint{Point: a.Coordinate(), CreatedAt: a.CreatedAt}
	}

	points := geo.BuildJourney(waypoints)
	if points == nil {
		points = []geo.Point{}
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}
