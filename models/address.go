package models

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Address is a postal address with optional geocoded coordinates.
type Address struct {
	AddressName  string   `bson:"addressName" json:"addressName"`
	Number       string   `bson:"number" json:"number"`
	Neighborhood string   `bson:"neighborhood" json:"neighborhood"`
	PostalCode   string   `bson:"postalCode" json:"postalCode"`
	City         string   `bson:"city" json:"city" binding:"required"`
	State        string   `bson:"state" json:"state" binding:"required"`
	Latitude     *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude    *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// Coordinates returns the address position, or nil when it was never geocoded.
func (a *Address) Coordinates() *Coordinates {
	if a == nil || a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	return &Coordinates{Latitude: *a.Latitude, Longitude: *a.Longitude}
}

// SetCoordinates stores c on the address.
func (a *Address) SetCoordinates(c Coordinates) {
	lat, lon := c.Latitude, c.Longitude
	a.Latitude = &lat
	a.Longitude = &lon
}
