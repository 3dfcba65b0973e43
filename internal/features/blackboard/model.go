package blackboard

import "time"

// Entry statuses. Scheduled entries become active once valid_from is
// reached; expired ones get archived by the sweep.
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusArchived  = "archived"
)

// Priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Entry is an announcement pinned to the blackboard. Org scoping works
// like suggestions: company-wide or department-scoped.
type Entry struct {
	ID                   int64      `json:"id"`
	TenantID             int64      `json:"tenantId"`
	Title                string     `json:"title"`
	Content              string     `json:"content"`
	Priority             string     `json:"priority"`
	OrgLevel             string     `json:"orgLevel"`
	DepartmentID         *int64     `json:"departmentId,omitempty"`
	Status               string     `json:"status"`
	RequiresConfirmation bool       `json:"requiresConfirmation"`
	AuthorID             int64      `json:"authorId"`
	ValidFrom            *time.Time `json:"validFrom,omitempty"`
	ValidUntil           *time.Time `json:"validUntil,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Confirmation records that a user has read a confirmation-required
// entry. One row per (entry, user).
type Confirmation struct {
	EntryID     int64     `json:"entryId"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username,omitempty"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

type CreateEntryRequest struct {
	Title                string     `json:"title"`
	Content              string     `json:"content"`
	Priority             string     `json:"priority"`
	OrgLevel             string     `json:"orgLevel"`
	DepartmentID         *int64     `json:"departmentId"`
	RequiresConfirmation bool       `json:"requiresConfirmation"`
	ValidFrom            *time.Time `json:"validFrom"`
	ValidUntil           *time.Time `json:"validUntil"`
}

type UpdateEntryRequest struct {
	Title      *string    `json:"title"`
	Content    *string    `json:"content"`
	Priority   *string    `json:"priority"`
	ValidUntil *time.Time `json:"validUntil"`
}

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
