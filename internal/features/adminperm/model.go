package adminperm

import "time"

// PermissionFlags is the read/write/delete triple stored on every grant.
type PermissionFlags struct {
	CanRead   bool `json:"canRead"`
	CanWrite  bool `json:"canWrite"`
	CanDelete bool `json:"canDelete"`
}

// AccessResult is the outcome of a CheckAccess evaluation. Source is
// "direct" when an explicit admin→department row decided, "group" when
// access came through group membership, empty when nothing matched.
type AccessResult struct {
	HasAccess   bool             `json:"hasAccess"`
	Source      string           `json:"source,omitempty"`
	Permissions *PermissionFlags `json:"permissions,omitempty"`
}

// DepartmentGrant is a direct admin→department permission row joined
// with the department's live name.
type DepartmentGrant struct {
	DepartmentID   int64           `json:"departmentId"`
	DepartmentName string          `json:"departmentName"`
	Permissions    PermissionFlags `json:"permissions"`
	AssignedAt     time.Time       `json:"assignedAt"`
}

// GroupGrant is an admin→group permission row. DepartmentCount is the
// group's current member count, resolved at read time.
type GroupGrant struct {
	GroupID         int64           `json:"groupId"`
	GroupName       string          `json:"groupName"`
	DepartmentCount int64           `json:"departmentCount"`
	Permissions     PermissionFlags `json:"permissions"`
	AssignedAt      time.Time       `json:"assignedAt"`
}

// PermissionSummary is the full permission picture for one admin.
// AssignedDepartments counts direct grants only; group-derived access is
// visible per group but never folded into the aggregate.
type PermissionSummary struct {
	AdminID             int64             `json:"adminId"`
	HasAllAccess        bool              `json:"hasAllAccess"`
	Departments         []DepartmentGrant `json:"departments"`
	Groups              []GroupGrant      `json:"groups"`
	TotalDepartments    int64             `json:"totalDepartments"`
	AssignedDepartments int64             `json:"assignedDepartments"`
}

type ReplacePermissionsRequest struct {
	AdminID       int64           `json:"adminId"`
	DepartmentIDs []int64         `json:"departmentIds"`
	GroupIDs      []int64         `json:"groupIds"`
	Permissions   PermissionFlags `json:"permissions"`
}

type BulkUpdateRequest struct {
	AdminIDs      []int64         `json:"adminIds"`
	Operation     string          `json:"operation"` // "assign" or "remove"
	DepartmentIDs []int64         `json:"departmentIds"`
	Permissions   PermissionFlags `json:"permissions"`
}

// BulkUpdateResult reports partial success: one admin failing does not
// abort the batch.
type BulkUpdateResult struct {
	SuccessCount int      `json:"successCount"`
	TotalCount   int      `json:"totalCount"`
	Errors       []string `json:"errors"`
}
