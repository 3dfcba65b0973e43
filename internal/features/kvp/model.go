package kvp

import "time"

// Suggestion statuses. Archived doubles as the soft-delete marker.
const (
	StatusNew         = "new"
	StatusInReview    = "in_review"
	StatusApproved    = "approved"
	StatusImplemented = "implemented"
	StatusRejected    = "rejected"
	StatusArchived    = "archived"
)

// Org levels a suggestion can be shared at.
const (
	OrgLevelCompany    = "company"
	OrgLevelDepartment = "department"
	OrgLevelTeam       = "team"
)

func validStatus(s string) bool {
	switch s {
	case StatusNew, StatusInReview, StatusApproved, StatusImplemented, StatusRejected, StatusArchived:
		return true
	}
	return false
}

func validOrgLevel(l string) bool {
	return l == OrgLevelCompany || l == OrgLevelDepartment || l == OrgLevelTeam
}

// Suggestion is a continuous-improvement proposal. Visibility derives
// from org level, department and submitter; group permissions never
// apply here.
type Suggestion struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenantId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority,omitempty"`
	OrgLevel     string    `json:"orgLevel"`
	OrgID        *int64    `json:"orgId,omitempty"`
	DepartmentID *int64    `json:"departmentId,omitempty"`
	SubmittedBy  int64     `json:"submittedBy"`
	AssignedTo   *int64    `json:"assignedTo,omitempty"`
	SharedBy     *int64    `json:"sharedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Attachment is metadata for an uploaded file. StoredName is the opaque
// on-disk name; the original file name is kept for download headers.
type Attachment struct {
	ID           int64     `json:"id"`
	SuggestionID int64     `json:"suggestionId"`
	FileName     string    `json:"fileName"`
	StoredName   string    `json:"-"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	UploadedBy   int64     `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateSuggestionRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	OrgLevel     string `json:"orgLevel"`
	DepartmentID *int64 `json:"departmentId"`
}

type UpdateSuggestionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

type StatusChangeRequest struct {
	Status     string `json:"status"`
	AssignedTo *int64 `json:"assignedTo"`
}

// ListQuery carries the caller's narrowing options on top of the
// role-derived visibility scope.
type ListQuery struct {
	Status          string // exact status match
	Filter          string // "", mine, department, company, archived
	IncludeArchived bool
	Page            int64
	Limit           int64
}
