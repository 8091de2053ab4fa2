package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tripatlas/api-go/geo"
)

// Viewer join states for an activity marker. Exactly one applies for any
// (activity, viewer) pair.
const (
	ViewerHost     = "host"
	ViewerJoined   = "joined"
	ViewerJoinable = "joinable"
)

// Soft caps on the free-form classification lists.
const (
	MaxActivityTypes = 16
	MaxActivityTags  = 32
)

type Activity struct {
	ID             uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Latitude       float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude      float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	HostID         uint           `json:"hostId" gorm:"not null;index"`
	Participants   pq.Int64Array  `json:"participants" gorm:"type:bigint[]"`
	Types          pq.StringArray `json:"types" gorm:"type:text[]"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	Budget         string         `json:"budget"`
	Duration       string         `json:"duration"`
	LocationType   string         `json:"locationType"`
	SocialVibe     string         `json:"socialVibe"`
	DateTime       *time.Time     `json:"dateTime" gorm:"null"`
	SharedExpenses bool           `json:"sharedExpenses" gorm:"default:false"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// Coordinate implements geo.Site.
func (a *Activity) Coordinate() geo.Point {
	return geo.Point{Lat: a.Latitude, Lng: a.Longitude}
}

// HasParticipant reports whether the user already joined. Host status is
// derived from HostID equality, never from membership here.
func (a *Activity) HasParticipant(userID uint) bool {
	for _, id := range a.Participants {
		if uint(id) == userID {
			return true
		}
	}
	return false
}

// ViewerState returns the single join state the given viewer is in for this
// activity: host wins over joined, joined wins over joinable.
func (a *Activity) ViewerState(userID uint) string {
	if userID == a.HostID {
		return ViewerHost
	}
	if a.HasParticipant(userID) {
		return ViewerJoined
	}
	return ViewerJoinable
}
