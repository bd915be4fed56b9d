package dto

import (
	"time"
	"warehub/internal/domains/availability"
	"warehub/internal/domains/booking/model"
	"warehub/shared"
	gDto "warehub/shared/dto"
	gModel "warehub/shared/model"
	"warehub/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	WarehouseID string           `json:"warehouse_id" validate:"required,uuid"`
	StartDate   string           `json:"start_date"   validate:"required,date"`
	EndDate     string           `json:"end_date"     validate:"required,date"`
	TotalPrice  *decimal.Decimal `json:"total_price"  validate:"omitempty,gt=0"`
}

// Period returns the parsed start and end dates.
func (c *CreateBookingRequest) Period() (start, end time.Time, err error) {
	if start, err = timezone.ParseDate(c.StartDate); err != nil {
		return start, end, err
	}

	if end, err = timezone.ParseDate(c.EndDate); err != nil {
		return start, end, err
	}

	return start, end, nil
}

// ToModel builds a pending booking for renter over [start, end).
func (c *CreateBookingRequest) ToModel(renter string, start, end time.Time, totalPrice decimal.Decimal) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:          uuid.NewString(),
		WarehouseID: c.WarehouseID,
		UserID:      renter,
		StartDate:   start,
		EndDate:     end,
		TotalPrice:  totalPrice,
		Status:      model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  renter,
			ModifiedBy: renter,
		},
	}
}

// GetBookingsRequest filters the booking lists.
type GetBookingsRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=pending active completed cancelled"`
	gDto.QueryParams
}

type BookingResponse struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	UserID      string          `json:"user_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      model.Status    `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.WarehouseID = m.WarehouseID
	r.UserID = m.UserID
	r.StartDate = timezone.FormatDate(m.StartDate)
	r.EndDate = timezone.FormatDate(m.EndDate)
	r.TotalPrice = m.TotalPrice
	r.Status = m.Status
	r.Metadata.FromModel(m.Metadata)
}

type WarehouseSummary struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Address      string             `json:"address"`
	City         string             `json:"city"`
	PricePerDay  decimal.Decimal    `json:"price_per_day"`
	Availability availability.State `json:"availability"`
	Owner        OwnerSummary       `json:"owner"`
}

type OwnerSummary struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
}

type BookingDetailResponse struct {
	BookingResponse
	Warehouse WarehouseSummary `json:"warehouse"`
}

func (r *BookingDetailResponse) FromModel(m model.BookingDetail) {
	r.BookingResponse.FromModel(m.Booking)
	r.Warehouse = WarehouseSummary{
		ID:           m.WarehouseID,
		Name:         m.WarehouseName,
		Address:      m.WarehouseAddress,
		City:         m.WarehouseCity,
		PricePerDay:  m.WarehousePricePerDay,
		Availability: m.WarehouseAvailability,
		Owner: OwnerSummary{
			ID:       m.WarehouseOwnerID,
			FullName: m.OwnerName,
			Email:    m.OwnerEmail,
			Phone:    m.OwnerPhone,
		},
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingDetailResponse `json:"bookings"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.BookingDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingDetailResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
