package resources

import (
	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/query"
)

type CreateUser struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=admin user manager"`
	Active    *bool  `json:"active"`
}

type UpdateUser struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin user manager"`
	Active    *bool   `json:"active"`
}

func createUser(body []byte) (models.Record, error) {
	var dto CreateUser
	if err := decodeBody(body, &dto); err != nil {
		return nil, err
	}
	if err := apierr.Validate(dto); err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = "user"
	}
	active := true
	if dto.Active != nil {
		active = *dto.Active
	}

	return models.Record{
		"username":  dto.Username,
		"email":     dto.Email,
		"firstName": dto.FirstName,
		"lastName":  dto.LastName,
		"role":      role,
		"active":    active,
	}, nil
}

func updateUser(body []byte) (models.Record, error) {
	return patchFrom(body, &UpdateUser{})
}

var Users = Entity{
	Name:    "User",
	Profile: query.Users,
	Hidden:  models.SensitiveUserFields,
	Create:  createUser,
	Update:  updateUser,
}
