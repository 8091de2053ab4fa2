package types

// MapClickRequest is a click on the map surface or on a cluster marker.
type MapClickRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

type WeatherQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
	At        string   `form:"at"`
}

type GeocodeQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
}
