package model

import (
	"slices"
	"warehub/internal/domains/availability"
	"warehub/shared/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName   = "warehouses"
	EntityName  = "warehouse"
	CachePrefix = "warehouse"

	FieldID           = "id"
	FieldOwnerID      = "owner_id"
	FieldName         = "name"
	FieldSize         = "size"
	FieldPricePerDay  = "price_per_day"
	FieldDescription  = "description"
	FieldImages       = "images"
	FieldCity         = "city"
	FieldState        = "state"
	FieldCountry      = "country"
	FieldAvailability = "availability"
	FieldBookingIDs   = "booking_ids"
	FieldCreatedAt    = "created_at"

	// ArgCurrentAvailability names the compare-and-set argument so it does
	// not collide with the availability value being written.
	ArgCurrentAvailability = "current_availability"

	DefaultLocationType = "Point"
	ImageDirectory      = "warehouses"
	MaxImages           = 10
)

type Warehouse struct {
	ID               string             `db:"id"`
	OwnerID          string             `db:"owner_id"`
	Name             string             `db:"name"`
	Size             int                `db:"size"`
	PricePerDay      decimal.Decimal    `db:"price_per_day"`
	Description      string             `db:"description"`
	Images           pq.StringArray     `db:"images"`
	LocationType     string             `db:"location_type"`
	Longitude        float64            `db:"longitude"`
	Latitude         float64            `db:"latitude"`
	FormattedAddress string             `db:"formatted_address"`
	City             string             `db:"city"`
	State            string             `db:"state"`
	Country          string             `db:"country"`
	Availability     availability.State `db:"availability"`
	BookingIDs       pq.StringArray     `db:"booking_ids"`
	model.Metadata
}

// WithBooking returns the booking references with id appended once.
func (w Warehouse) WithBooking(id string) pq.StringArray {
	if slices.Contains(w.BookingIDs, id) {
		return slices.Clone(w.BookingIDs)
	}

	return append(slices.Clone(w.BookingIDs), id)
}

// WithoutBooking returns the booking references with id removed.
func (w Warehouse) WithoutBooking(id string) pq.StringArray {
	return slices.DeleteFunc(slices.Clone(w.BookingIDs), func(ref string) bool {
		return ref == id
	})
}

func (w Warehouse) IsOwnedBy(userID string) bool {
	return userID != "" && w.OwnerID == userID
}
