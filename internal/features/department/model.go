package department

import "time"

// Department is a tenant-scoped organizational unit. ParentID builds the
// hierarchy; nil means top level.
type Department struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *int64    `json:"parentId,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Group bundles departments for bulk permission assignment. Membership
// is edited live; grants referencing the group follow automatically.
type Group struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parentId"`
	IsActive    *bool   `json:"isActive"`
}

type CreateGroupRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	DepartmentIDs []int64 `json:"departmentIds"`
}
