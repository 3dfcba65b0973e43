package kvp

import (
	"strings"
	"testing"

	"assixx/internal/common/models"
)

func deptPtr(id int64) *int64 { return &id }

func employeeViewer(dept *int64) Viewer {
	return Viewer{UserID: 8, TenantID: 1, Role: models.RoleEmployee, DepartmentID: dept}
}

func containsArg(args []interface{}, want interface{}) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestEmployeeScopeClauses(t *testing.T) {
	where, args := BuildVisibilityQuery(employeeViewer(deptPtr(3)), ListQuery{})

	if !strings.Contains(where, "s.org_level = ?") {
		t.Error("employee scope must include org level clauses")
	}
	if !strings.Contains(where, "s.submitted_by = ?") {
		t.Error("employee scope must include own submissions")
	}
	if !containsArg(args, int64(3)) {
		t.Errorf("args %v missing the viewer's department", args)
	}
	if !containsArg(args, int64(8)) {
		t.Errorf("args %v missing the viewer's user id", args)
	}
}

func TestEmployeeWithoutDepartment(t *testing.T) {
	where, args := BuildVisibilityQuery(employeeViewer(nil), ListQuery{})

	if strings.Contains(where, "s.department_id = ?") {
		t.Error("no department clause when the viewer has no department")
	}
	if !containsArg(args, OrgLevelCompany) || !containsArg(args, int64(8)) {
		t.Errorf("args %v should still scope to company level and own submissions", args)
	}
}

func TestRootAndAdminSeeWholeTenant(t *testing.T) {
	for _, role := range []models.Role{models.RoleRoot, models.RoleAdmin} {
		where, args := BuildVisibilityQuery(Viewer{UserID: 1, TenantID: 1, Role: role}, ListQuery{})

		if strings.Contains(where, "org_level") {
			t.Errorf("%s: no organizational restriction expected, got %q", role, where)
		}
		if !containsArg(args, int64(1)) {
			t.Errorf("%s: tenant clause missing from %v", role, args)
		}
	}
}

func TestArchivedExcludedByDefault(t *testing.T) {
	where, args := BuildVisibilityQuery(Viewer{UserID: 1, TenantID: 1, Role: models.RoleRoot}, ListQuery{})

	if !strings.Contains(where, "s.status != ?") {
		t.Errorf("default scope must exclude archived, got %q", where)
	}
	if !containsArg(args, StatusArchived) {
		t.Errorf("args %v missing archived exclusion value", args)
	}
}

func TestArchivedIncludedWhenRequested(t *testing.T) {
	tests := []struct {
		name string
		q    ListQuery
	}{
		{"includeArchived", ListQuery{IncludeArchived: true}},
		{"statusArchived", ListQuery{Status: StatusArchived}},
		{"filterArchived", ListQuery{Filter: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, _ := BuildVisibilityQuery(Viewer{UserID: 1, TenantID: 1, Role: models.RoleRoot}, tt.q)
			if strings.Contains(where, "s.status != ?") {
				t.Errorf("archived exclusion must be lifted, got %q", where)
			}
		})
	}
}

func TestStatusFilterExactMatch(t *testing.T) {
	where, args := BuildVisibilityQuery(Viewer{UserID: 1, TenantID: 1, Role: models.RoleAdmin}, ListQuery{Status: StatusInReview})

	if !strings.Contains(where, "s.status = ?") {
		t.Errorf("status filter missing from %q", where)
	}
	if !containsArg(args, StatusInReview) {
		t.Errorf("args %v missing the requested status", args)
	}
}

func TestMineFilterNarrowsRoot(t *testing.T) {
	where, args := BuildVisibilityQuery(Viewer{UserID: 5, TenantID: 1, Role: models.RoleRoot}, ListQuery{Filter: "mine"})

	if !strings.Contains(where, "s.submitted_by = ?") {
		t.Errorf("filter=mine must narrow even root, got %q", where)
	}
	if !containsArg(args, int64(5)) {
		t.Errorf("args %v missing the viewer's user id", args)
	}
}

func TestDepartmentFilterNoopForRoot(t *testing.T) {
	where, _ := BuildVisibilityQuery(Viewer{UserID: 1, TenantID: 1, Role: models.RoleRoot}, ListQuery{Filter: "department"})

	if strings.Contains(where, "s.department_id = ?") {
		t.Errorf("filter=department must not narrow for root, got %q", where)
	}
}

func TestDepartmentFilterUsesViewerDepartment(t *testing.T) {
	where, args := BuildVisibilityQuery(
		Viewer{UserID: 9, TenantID: 1, Role: models.RoleAdmin, DepartmentID: deptPtr(4)},
		ListQuery{Filter: "department"})

	if !strings.Contains(where, "s.department_id = ?") {
		t.Errorf("filter=department must narrow for non-root, got %q", where)
	}
	if !containsArg(args, int64(4)) {
		t.Errorf("args %v missing the viewer's department", args)
	}
}

func TestCompanyFilter(t *testing.T) {
	where, args := BuildVisibilityQuery(employeeViewer(deptPtr(3)), ListQuery{Filter: "company"})

	if !strings.HasSuffix(where, "s.org_level = ?") {
		t.Errorf("company filter expected as trailing clause, got %q", where)
	}
	if !containsArg(args, OrgLevelCompany) {
		t.Errorf("args %v missing company level", args)
	}
}

func TestCanViewEmployee(t *testing.T) {
	viewer := employeeViewer(deptPtr(3))

	tests := []struct {
		name string
		s    Suggestion
		want bool
	}{
		{"companyLevel", Suggestion{TenantID: 1, OrgLevel: OrgLevelCompany, DepartmentID: deptPtr(9)}, true},
		{"ownDepartment", Suggestion{TenantID: 1, OrgLevel: OrgLevelDepartment, DepartmentID: deptPtr(3)}, true},
		{"foreignDepartment", Suggestion{TenantID: 1, OrgLevel: OrgLevelDepartment, DepartmentID: deptPtr(9)}, false},
		{"foreignButOwnSubmission", Suggestion{TenantID: 1, OrgLevel: OrgLevelDepartment, DepartmentID: deptPtr(9), SubmittedBy: 8}, true},
		{"otherTenant", Suggestion{TenantID: 2, OrgLevel: OrgLevelCompany}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(viewer, &tt.s); got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}
		})
	}
}
