package kvp

import "assixx/internal/common/models"

// Viewer is the principal a visibility scope is built for. DepartmentID
// must be the viewer's current department, resolved fresh by the
// caller, never taken from a cached token claim.
type Viewer struct {
	UserID       int64
	TenantID     int64
	Role         models.Role
	DepartmentID *int64
}

// BuildVisibilityQuery returns a WHERE fragment (with ? placeholders)
// and its parameter list selecting every suggestion the viewer may see,
// narrowed by the query options.
//
// Role scope: root and admin see the whole tenant; employees see
// company-level suggestions, department-level ones in their own
// department, and their own submissions. Archived rows are excluded
// unless explicitly requested through the status filter, the scope
// filter or includeArchived. The scope filter is ANDed independently on
// top of the role scope, so filter=mine narrows even a root viewer.
func BuildVisibilityQuery(viewer Viewer, q ListQuery) (string, []interface{}) {
	where := "s.tenant_id = ?"
	args := []interface{}{viewer.TenantID}

	if viewer.Role != models.RoleRoot && viewer.Role != models.RoleAdmin {
		if viewer.DepartmentID != nil {
			where += " AND (s.org_level = ? OR (s.org_level = ? AND s.department_id = ?) OR s.submitted_by = ?)"
			args = append(args, OrgLevelCompany, OrgLevelDepartment, *viewer.DepartmentID, viewer.UserID)
		} else {
			where += " AND (s.org_level = ? OR s.submitted_by = ?)"
			args = append(args, OrgLevelCompany, viewer.UserID)
		}
	}

	if q.Status != "" {
		where += " AND s.status = ?"
		args = append(args, q.Status)
	}

	archivedRequested := q.IncludeArchived || q.Status == StatusArchived || q.Filter == "archived"
	if !archivedRequested {
		where += " AND s.status != ?"
		args = append(args, StatusArchived)
	}

	switch q.Filter {
	case "mine":
		where += " AND s.submitted_by = ?"
		args = append(args, viewer.UserID)
	case "department":
		// Root has no home department; the filter silently does not
		// narrow for root viewers.
		if viewer.Role != models.RoleRoot && viewer.DepartmentID != nil {
			where += " AND s.org_level = ? AND s.department_id = ?"
			args = append(args, OrgLevelDepartment, *viewer.DepartmentID)
		}
	case "company":
		where += " AND s.org_level = ?"
		args = append(args, OrgLevelCompany)
	case "archived":
		where += " AND s.status = ?"
		args = append(args, StatusArchived)
	}

	return where, args
}

// CanView applies the same role scope to a single loaded suggestion.
func CanView(viewer Viewer, s *Suggestion) bool {
	if s.TenantID != viewer.TenantID {
		return false
	}
	if viewer.Role == models.RoleRoot || viewer.Role == models.RoleAdmin {
		return true
	}
	if s.SubmittedBy == viewer.UserID {
		return true
	}
	switch s.OrgLevel {
	case OrgLevelCompany:
		return true
	case OrgLevelDepartment:
		return viewer.DepartmentID != nil && s.DepartmentID != nil && *viewer.DepartmentID == *s.DepartmentID
	}
	return false
}
