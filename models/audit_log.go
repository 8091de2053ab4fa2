package models

import (
	"time"
)

// AuditLog actions recorded by the activity workflow.
const (
	ActionActivityCreated = "activity_created"
	ActionActivityJoined  = "activity_joined"
)

// AuditLog records who did what to an activity, with the coordinate it
// happened at. Append-only.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     uint      `json:"userId" gorm:"not null;index"`
	ActivityID uint      `json:"activityId" gorm:"not null;index"`
	Action     string    `json:"action" gorm:"not null;type:varchar(50)"`
	Latitude   float64   `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude  float64   `json:"longitude" gorm:"not null;type:decimal(11,8)"`
}
