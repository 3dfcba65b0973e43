package calendar

import "time"

// Event is a calendar entry scoped like blackboard entries: company-wide
// or to one department.
type Event struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenantId"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	OrgLevel     string    `json:"orgLevel"`
	DepartmentID *int64    `json:"departmentId,omitempty"`
	AllDay       bool      `json:"allDay"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	CreatedBy    int64     `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateEventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	OrgLevel     string    `json:"orgLevel"`
	DepartmentID *int64    `json:"departmentId"`
	AllDay       bool      `json:"allDay"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

// Range narrows a listing to an interval; zero values mean unbounded.
type Range struct {
	From time.Time
	To   time.Time
}
