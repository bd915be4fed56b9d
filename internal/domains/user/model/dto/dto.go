package dto

import (
	"warehub/internal/domains/user/model"
	"warehub/shared"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	gModel "warehub/shared/model"
	"warehub/shared/timezone"

	"github.com/google/uuid"
)

// CreateUserRequest is used by admins; self sign-up goes through auth.
type CreateUserRequest struct {
	Email        string  `json:"email"                   validate:"required,email"`
	Password     string  `json:"password"                validate:"required,min=8"`
	Role         string  `json:"role"                    validate:"omitempty,oneof=owner farmer admin"`
	FullName     *string `json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone,omitempty"         validate:"omitempty,e164"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,url"`
}

func (r *CreateUserRequest) ToModel(createdBy string, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleFarmer
	}

	now := timezone.Now()

	return model.User{
		ID:           uuid.NewString(),
		Email:        r.Email,
		Password:     hashedPassword,
		Role:         role,
		FullName:     r.FullName,
		Phone:        r.Phone,
		ProfileImage: r.ProfileImage,
		Active:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	FullName     *string `json:"full_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	LastLogin    *string `json:"last_login,omitempty"`
	Active       bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(m model.User) {
	r.ID = m.ID
	r.Email = m.Email
	r.Role = m.Role
	r.FullName = m.FullName
	r.Phone = m.Phone
	r.ProfileImage = m.ProfileImage
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)

	r.LastLogin = nil
	if m.LastLogin != nil {
		lastLogin := timezone.Format(*m.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}
}

type UpdateUserRequest struct {
	Role         *string `db:"role"          json:"role,omitempty"          validate:"omitempty,oneof=owner farmer admin"`
	FullName     *string `db:"full_name"     json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	Phone        *string `db:"phone"         json:"phone,omitempty"         validate:"omitempty,e164"`
	ProfileImage *string `db:"profile_image" json:"profile_image,omitempty" validate:"omitempty,url"`
	Active       *bool   `db:"active"        json:"active,omitempty"`
}

type GetUsersRequest struct {
	Role string `json:"role" validate:"omitempty,oneof=owner farmer admin"`
	gDto.QueryParams
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
