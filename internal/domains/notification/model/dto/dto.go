package dto

import (
	"warehub/internal/domains/notification/model"
	"warehub/shared"
	gDto "warehub/shared/dto"
)

type GetNotificationsRequest struct {
	UnreadOnly bool `json:"unread_only"`
	gDto.QueryParams
}

type NotificationResponse struct {
	ID          string          `json:"id"`
	Type        model.EventType `json:"type"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	BookingID   string          `json:"booking_id"`
	WarehouseID string          `json:"warehouse_id"`
	Read        bool            `json:"read"`
	gDto.Metadata
}

func (r *NotificationResponse) FromModel(m model.Notification) {
	r.ID = m.ID
	r.Type = m.Type
	r.Title = m.Title
	r.Body = m.Body
	r.BookingID = m.BookingID
	r.WarehouseID = m.WarehouseID
	r.Read = m.Read
	r.Metadata.FromModel(m.Metadata)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, unread, limit int) {
	r.TotalData = totalData
	r.Unread = unread
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}
