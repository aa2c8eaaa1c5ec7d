package models

import "encoding/json"

// Apartment is a property record exactly as the listing endpoint returns it.
type Apartment struct {
	ID           int64   `json:"id"`
	PropertyName string  `json:"property_name"`
	PropertyCode string  `json:"property_code"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	Bedrooms     int     `json:"bedrooms"`
	Adults       int     `json:"adults"`
	Children     int     `json:"children"`
	Parking      int     `json:"parking"`
	Pets         int     `json:"pets"`
	Price        float64 `json:"price"`
	Website      string  `json:"website"`
	WebsiteImage string  `json:"website_image"`
}

// ApartmentsResponse keeps Status and Data raw so that shape checks can tell
// a missing or mistyped field apart from a zero value.
type ApartmentsResponse struct {
	Status json.RawMessage `json:"status"`
	Data   json.RawMessage `json:"data"`
}
