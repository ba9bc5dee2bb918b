package geomaps

import (
	"net/url"
	"strings"
)

// Address is the canonical postal address. Any field may be empty when the
// vendor did not supply it; absence never turns into a placeholder value.
type Address struct {
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	City        string `json:"city,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"` // ISO 3166-1 alpha-2, lowercase
	Formatted   string `json:"formatted,omitempty"`    // vendor-supplied display string
}

// IsZero reports whether no field is populated.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Format returns the vendor display string when present, otherwise composes
// one from the populated fields.
func (a Address) Format() string {
	if a.Formatted != "" {
		return a.Formatted
	}

	var parts []string
	if a.Street != "" {
		street := a.Street
		if a.HouseNumber != "" {
			street = a.HouseNumber + " " + a.Street
		}
		parts = append(parts, street)
	}
	if a.City != "" {
		city := a.City
		if a.Postcode != "" {
			city = a.Postcode + " " + a.City
		}
		parts = append(parts, city)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// QueryParams maps the populated postal fields onto query parameters for
// structured vendor lookups. Empty fields are omitted entirely.
func (a Address) QueryParams() url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("street", a.Street)
	set("housenumber", a.HouseNumber)
	set("city", a.City)
	set("postcode", a.Postcode)
	set("country", a.Country)
	return params
}
