package shift

import "time"

// Shift types in rotation order.
const (
	TypeEarly = "early"
	TypeLate  = "late"
	TypeNight = "night"
)

func validShiftType(t string) bool {
	return t == TypeEarly || t == TypeLate || t == TypeNight
}

// Plan is a shift schedule for one department (optionally narrowed to a
// team) over a date range.
type Plan struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenantId"`
	DepartmentID int64     `json:"departmentId"`
	TeamID       *int64    `json:"teamId,omitempty"`
	Name         string    `json:"name"`
	StartsOn     time.Time `json:"startsOn"`
	EndsOn       time.Time `json:"endsOn"`
	CreatedBy    int64     `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Entry assigns one user to one shift on one date inside a plan.
type Entry struct {
	ID        int64     `json:"id"`
	PlanID    int64     `json:"planId"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Date      time.Time `json:"date"`
	ShiftType string    `json:"shiftType"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatePlanRequest struct {
	DepartmentID int64     `json:"departmentId"`
	TeamID       *int64    `json:"teamId"`
	Name         string    `json:"name"`
	StartsOn     time.Time `json:"startsOn"`
	EndsOn       time.Time `json:"endsOn"`
}

type CreateEntryRequest struct {
	UserID    int64     `json:"userId"`
	Date      time.Time `json:"date"`
	ShiftType string    `json:"shiftType"`
	Note      string    `json:"note"`
}
