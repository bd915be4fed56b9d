package model

import (
	"slices"
	"time"
	"warehub/internal/domains/availability"
	"warehub/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName   = "bookings"
	EntityName  = "booking"
	CachePrefix = "booking"

	// CacheDetailPrefix keys the single-booking detail cache by id.
	CacheDetailPrefix = CachePrefix + ":get"

	FieldID          = "id"
	FieldWarehouseID = "warehouse_id"
	FieldUserID      = "user_id"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldTotalPrice  = "total_price"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusActive, StatusCompleted, StatusCancelled}

func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// IsTerminal is true for completed and cancelled bookings.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Booking struct {
	ID          string          `db:"id"`
	WarehouseID string          `db:"warehouse_id"`
	UserID      string          `db:"user_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	Status      Status          `db:"status"`
	model.Metadata
}

// BookingDetail is a booking joined with its warehouse and the warehouse owner.
type BookingDetail struct {
	Booking
	WarehouseName         string             `db:"warehouse_name"          table:"warehouses" column:"name"`
	WarehouseOwnerID      string             `db:"warehouse_owner_id"      table:"warehouses" column:"owner_id"`
	WarehouseAddress      string             `db:"warehouse_address"       table:"warehouses" column:"formatted_address"`
	WarehouseCity         string             `db:"warehouse_city"          table:"warehouses" column:"city"`
	WarehousePricePerDay  decimal.Decimal    `db:"warehouse_price_per_day" table:"warehouses" column:"price_per_day"`
	WarehouseAvailability availability.State `db:"warehouse_availability"  table:"warehouses" column:"availability"`
	OwnerName             *string            `db:"owner_name"              table:"users"      column:"full_name"`
	OwnerEmail            string             `db:"owner_email"             table:"users"      column:"email"`
	OwnerPhone            *string            `db:"owner_phone"             table:"users"      column:"phone"`
}

func (BookingDetail) GetJoinQuery() string {
	return "JOIN warehouses ON warehouses.id = bookings.warehouse_id JOIN users ON users.id = warehouses.owner_id"
}
