package models

import (
	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyHouse      PropertyType = "HOUSE"
	PropertyApartment  PropertyType = "APARTMENT"
	PropertyCommercial PropertyType = "COMMERCIAL"
	PropertyLand       PropertyType = "LAND"
	PropertyRural      PropertyType = "RURAL"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyCommercial, PropertyLand, PropertyRural:
		return true
	}
	return false
}

// DefaultRooms seeds a new property when the caller supplies no room list.
var DefaultRooms = []string{
	"Living Room",
	"Dining Room",
	"Kitchen",
	"Laundry",
	"Bedroom 1",
	"Bedroom 2",
	"Bedroom 3",
	"Main Bathroom",
	"Suite Bathroom",
	"Balcony",
	"Garage",
	"Outdoor Area",
}

type Property struct {
	BaseUUIDModel
	Type       PropertyType `gorm:"type:text;not null;index"  json:"type"`
	Street     string       `gorm:"type:text;not null"        json:"street"`
	Number     string       `gorm:"type:text"                 json:"number"`
	Complement string       `gorm:"type:text"                 json:"complement"`
	District   string       `gorm:"type:text;not null"        json:"district"`
	City       string       `gorm:"type:text;not null;index"  json:"city"`
	State      string       `gorm:"type:varchar(2);not null"  json:"state"`
	PostalCode string       `gorm:"type:text"                 json:"postalCode"`
	OwnerName  string       `gorm:"type:text"                 json:"ownerName"`
	Phone      string       `gorm:"type:text"                 json:"phone"`
	Notes      string       `gorm:"type:text"                 json:"notes"`
	Active     bool         `gorm:"type:bool;not null;index"   json:"active"`
	Rooms      []Room       `gorm:"foreignKey:PropertyID"     json:"rooms,omitempty"`
}

type Room struct {
	BaseUUIDModel
	PropertyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"propertyId"`
	Name         string    `gorm:"type:text;not null"       json:"name"`
	DisplayOrder int       `gorm:"not null;default:0"       json:"order"`
	Exists       bool      `gorm:"type:bool;not null"       json:"exists"`
}

// ExistingRooms returns the rooms flagged as present, keeping their order.
func ExistingRooms(rooms []Room) []Room {
	existing := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Exists {
			existing = append(existing, room)
		}
	}
	return existing
}
