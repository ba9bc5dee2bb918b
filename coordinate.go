package geomaps

import (
	"strconv"
	"strings"
)

// Coordinate is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate builds a Coordinate, rejecting out-of-range values with a
// ValidationError.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// ParseCoordinate parses the "lat,lon" form produced by String.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, NewValidationError("coordinate must be in \"lat,lon\" form, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, NewValidationError("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, NewValidationError("invalid longitude %q", parts[1])
	}
	return NewCoordinate(lat, lon)
}

// Validate checks the WGS-84 ranges: latitude in [-90, 90] and longitude
// in [-180, 180].
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return NewValidationError("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return NewValidationError("longitude %v out of range [-180, 180]", c.Longitude)
	}
	return nil
}

// String renders the "lat,lon" form used in vendor query parameters.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
