package dto

import (
	"mime/multipart"
	"warehub/internal/domains/availability"
	"warehub/internal/domains/warehouse/model"
	"warehub/shared"
	gDto "warehub/shared/dto"
	gModel "warehub/shared/model"
	"warehub/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formatted_address"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
}

type Image struct {
	Header *multipart.FileHeader `validate:"mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	File   multipart.File        `validate:"-"`
}

type CreateWarehouseRequest struct {
	Name             string          `form:"name"              validate:"required,max=150"`
	Size             int             `form:"size"              validate:"required,gt=0"`
	PricePerDay      decimal.Decimal `form:"price_per_day"     validate:"gt=0"`
	Description      string          `form:"description"       validate:"omitempty,max=2000"`
	LocationType     string          `form:"location_type"     validate:"omitempty,max=30"`
	Longitude        float64         `form:"longitude"         validate:"gte=-180,lte=180"`
	Latitude         float64         `form:"latitude"          validate:"gte=-90,lte=90"`
	FormattedAddress string          `form:"formatted_address" validate:"required,max=300"`
	City             string          `form:"city"              validate:"required,max=100"`
	State            string          `form:"state"             validate:"omitempty,max=100"`
	Country          string          `form:"country"           validate:"required,max=100"`
	Images           []Image         `form:"images"            validate:"max=10,dive"`
}

// ToModel builds a new warehouse. It starts available with no bookings.
func (c *CreateWarehouseRequest) ToModel(id, owner string, imageURLs []string) model.Warehouse {
	locationType := c.LocationType
	if locationType == "" {
		locationType = model.DefaultLocationType
	}

	now := timezone.Now()

	return model.Warehouse{
		ID:               id,
		OwnerID:          owner,
		Name:             c.Name,
		Size:             c.Size,
		PricePerDay:      c.PricePerDay,
		Description:      c.Description,
		Images:           pq.StringArray(append([]string{}, imageURLs...)),
		LocationType:     locationType,
		Longitude:        c.Longitude,
		Latitude:         c.Latitude,
		FormattedAddress: c.FormattedAddress,
		City:             c.City,
		State:            c.State,
		Country:          c.Country,
		Availability:     availability.Available,
		BookingIDs:       pq.StringArray{},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  owner,
			ModifiedBy: owner,
		},
	}
}

// NewWarehouseID is split out so image uploads can be keyed by the id before insert.
func NewWarehouseID() string {
	return uuid.NewString()
}

// UpdateWarehouseRequest patches descriptive fields. Availability and booking
// references are not client writable.
type UpdateWarehouseRequest struct {
	Name             *string          `db:"name"              json:"name"              validate:"omitempty,max=150"`
	Size             *int             `db:"size"              json:"size"              validate:"omitempty,gt=0"`
	PricePerDay      *decimal.Decimal `db:"price_per_day"     json:"price_per_day"     validate:"omitempty,gt=0"`
	Description      *string          `db:"description"       json:"description"       validate:"omitempty,max=2000"`
	LocationType     *string          `db:"location_type"     json:"location_type"     validate:"omitempty,max=30"`
	Longitude        *float64         `db:"longitude"         json:"longitude"         validate:"omitempty,gte=-180,lte=180"`
	Latitude         *float64         `db:"latitude"          json:"latitude"          validate:"omitempty,gte=-90,lte=90"`
	FormattedAddress *string          `db:"formatted_address" json:"formatted_address" validate:"omitempty,max=300"`
	City             *string          `db:"city"              json:"city"              validate:"omitempty,max=100"`
	State            *string          `db:"state"             json:"state"             validate:"omitempty,max=100"`
	Country          *string          `db:"country"           json:"country"           validate:"omitempty,max=100"`
	// AddImages holds base64 data URLs.
	AddImages    []string `json:"add_images"    validate:"max=10,dive,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=7"`
	RemoveImages []string `json:"remove_images" validate:"dive,url"`
}

func (u *UpdateWarehouseRequest) HasFieldChanges() bool {
	return u.Name != nil || u.Size != nil || u.PricePerDay != nil || u.Description != nil ||
		u.LocationType != nil || u.Longitude != nil || u.Latitude != nil || u.FormattedAddress != nil ||
		u.City != nil || u.State != nil || u.Country != nil
}

func (u *UpdateWarehouseRequest) IsEmpty() bool {
	return !u.HasFieldChanges() && len(u.AddImages) == 0 && len(u.RemoveImages) == 0
}

// GetWarehousesRequest filters the warehouse listing.
type GetWarehousesRequest struct {
	City         string `json:"city"         validate:"omitempty,max=100"`
	Availability string `json:"availability" validate:"omitempty,oneof=available booked maintenance"`
	OwnerID      string `json:"owner_id"     validate:"omitempty,uuid"`
	gDto.QueryParams
}

type MaintenanceRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type WarehouseResponse struct {
	ID           string             `json:"id"`
	OwnerID      string             `json:"owner_id"`
	Name         string             `json:"name"`
	Size         int                `json:"size"`
	PricePerDay  decimal.Decimal    `json:"price_per_day"`
	Description  string             `json:"description"`
	Images       []string           `json:"images"`
	Location     Location           `json:"location"`
	Availability availability.State `json:"availability"`
	BookingIDs   []string           `json:"booking_ids"`
	gDto.Metadata
}

func (r *WarehouseResponse) FromModel(m model.Warehouse) {
	r.ID = m.ID
	r.OwnerID = m.OwnerID
	r.Name = m.Name
	r.Size = m.Size
	r.PricePerDay = m.PricePerDay
	r.Description = m.Description
	r.Images = append([]string{}, m.Images...)
	r.Location = Location{
		Type:             m.LocationType,
		Coordinates:      [2]float64{m.Longitude, m.Latitude},
		FormattedAddress: m.FormattedAddress,
		City:             m.City,
		State:            m.State,
		Country:          m.Country,
	}
	r.Availability = m.Availability
	r.BookingIDs = append([]string{}, m.BookingIDs...)
	r.Metadata.FromModel(m.Metadata)
}

type GetWarehousesResponse struct {
	Warehouses []WarehouseResponse `json:"warehouses"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetWarehousesResponse) FromModels(models []model.Warehouse, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Warehouses = make([]WarehouseResponse, len(models))
	for i, mod := range models {
		r.Warehouses[i].FromModel(mod)
	}
}
