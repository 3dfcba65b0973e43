package user

import (
	"time"

	"assixx/internal/common/models"
)

// User is a tenant-scoped account. Role and tenant are immutable per
// session; the department assignment can change.
type User struct {
	ID           int64       `json:"id"`
	TenantID     int64       `json:"tenantId"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName,omitempty"`
	LastName     string      `json:"lastName,omitempty"`
	Role         models.Role `json:"role"`
	DepartmentID *int64      `json:"departmentId,omitempty"`
	Status       string      `json:"status"` // active, inactive
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type CreateUserRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"departmentId"`
}

type UpdateUserRequest struct {
	Email        *string `json:"email"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	DepartmentID *int64  `json:"departmentId"`
	Status       *string `json:"status"`
}

type ListFilter struct {
	Role         string
	DepartmentID *int64
	Search       string
	Page         int64
	Limit        int64
}
