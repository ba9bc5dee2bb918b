package geoapify

import "github.com/fernwhistle/geomaps"

// Geoapify API response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   geometry   `json:"geometry"`
	Properties properties `json:"properties"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

type properties struct {
	Street      string  `json:"street"`
	HouseNumber string  `json:"housenumber"`
	City        string  `json:"city"`
	Postcode    string  `json:"postcode"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Formatted   string  `json:"formatted"`
	Distance    float64 `json:"distance"` // meters, routing only
	Time        float64 `json:"time"`     // seconds, routing only
	Rank        rank    `json:"rank"`
}

type rank struct {
	Confidence float64 `json:"confidence"`
}

type matrixResponse struct {
	SourcesToTargets [][]matrixCell `json:"sources_to_targets"`
}

// matrixCell uses pointers so an absent field reads as unreachable rather
// than a zero-length trip.
type matrixCell struct {
	Distance *float64 `json:"distance"`
	Time     *float64 `json:"time"`
}

// position extracts the [lon, lat] geometry as a canonical Coordinate.
func (f feature) position() (geomaps.Coordinate, bool) {
	if len(f.Geometry.Coordinates) < 2 {
		return geomaps.Coordinate{}, false
	}
	c, err := geomaps.NewCoordinate(f.Geometry.Coordinates[1], f.Geometry.Coordinates[0])
	if err != nil {
		return geomaps.Coordinate{}, false
	}
	return c, true
}

func (p properties) address() geomaps.Address {
	return geomaps.Address{
		Street:      p.Street,
		HouseNumber: p.HouseNumber,
		City:        p.City,
		Postcode:    p.Postcode,
		State:       p.State,
		Country:     p.Country,
		CountryCode: p.CountryCode,
		Formatted:   p.Formatted,
	}
}
