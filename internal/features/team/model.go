package team

import "time"

// Team is a working unit inside a department.
type Team struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenantId"`
	DepartmentID int64     `json:"departmentId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	LeaderID     *int64    `json:"leaderId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Member is a user's membership row joined with display fields.
type Member struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type CreateTeamRequest struct {
	DepartmentID int64  `json:"departmentId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LeaderID     *int64 `json:"leaderId"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LeaderID    *int64  `json:"leaderId"`
}
