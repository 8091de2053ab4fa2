package types

// LocationInput is a coordinate supplied by map click or manual entry.
// Pointers so that 0 (a valid latitude and longitude) still binds.
type LocationInput struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

type CreateActivityRequest struct {
	Title          string         `json:"title"`
	Name           string         `json:"name"` // accepted alias for title
	Description    string         `json:"description"`
	Location       *LocationInput `json:"location"`
	Budget         string         `json:"budget" binding:"omitempty,oneof=free budget moderate premium luxury"`
	Types          []string       `json:"types" binding:"omitempty,max=16"`
	Tags           []string       `json:"tags" binding:"omitempty,max=32"`
	Duration       string         `json:"duration" binding:"omitempty,oneof=short half_day full_day multi_day"`
	DateTime       string         `json:"dateTime"`
	LocationType   string         `json:"locationType" binding:"omitempty,oneof=indoor outdoor mixed"`
	SocialVibe     string         `json:"socialVibe" binding:"omitempty,oneof=chill social party adventurous"`
	SharedExpenses bool           `json:"sharedExpenses"`
}

type ListActivitiesQuery struct {
	Mine bool `form:"mine"`
}

type MarkersQuery struct {
	Zoom int  `form:"zoom" binding:"required,min=1,max=20"`
	Mine bool `form:"mine"`
}
