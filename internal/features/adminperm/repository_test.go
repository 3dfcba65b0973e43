package adminperm

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assixx/internal/database"
)

func newMockRepo(t *testing.T) (PermissionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPermissionRepository(&database.SQLDB{DB: db, Driver: "mysql"}), mock
}

func TestFindDirectAbsentReturnsNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT can_read, can_write, can_delete").
		WithArgs(int64(42), int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"can_read", "can_write", "can_delete"}))

	flags, err := repo.FindDirect(context.Background(), 42, 3, 7)
	require.NoError(t, err)
	assert.Nil(t, flags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDirectReturnsFlags(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT can_read, can_write, can_delete").
		WithArgs(int64(42), int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"can_read", "can_write", "can_delete"}).
			AddRow(true, true, false))

	flags, err := repo.FindDirect(context.Background(), 42, 3, 7)
	require.NoError(t, err)
	require.NotNil(t, flags)
	assert.True(t, flags.CanRead)
	assert.True(t, flags.CanWrite)
	assert.False(t, flags.CanDelete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindGroupFlagsJoinsMembership(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("JOIN department_group_members").
		WithArgs(int64(42), int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"can_read", "can_write", "can_delete"}).
			AddRow(true, true, false).
			AddRow(true, false, true))

	flags, err := repo.FindGroupFlagsForDepartment(context.Background(), 42, 5, 7)
	require.NoError(t, err)
	require.Len(t, flags, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceDepartmentPermissionsTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM admin_department_permissions").
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO admin_department_permissions").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceDepartmentPermissions(context.Background(), 42, 7,
		[]int64{1, 2}, PermissionFlags{CanRead: true, CanWrite: true}, 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceWithEmptySetSkipsInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM admin_department_permissions").
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceDepartmentPermissions(context.Background(), 42, 7,
		nil, PermissionFlags{}, 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM admin_group_permissions").
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admin_group_permissions").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceGroupPermissions(context.Background(), 42, 7,
		[]int64{9}, PermissionFlags{CanRead: true}, 1)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDepartmentGrantReportsMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM admin_department_permissions").
		WithArgs(int64(42), int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.DeleteDepartmentGrant(context.Background(), 42, 3, 7)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDepartmentGrants(t *testing.T) {
	repo, mock := newMockRepo(t)

	assigned := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM admin_department_permissions adp").
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "name", "can_read", "can_write", "can_delete", "created_at"}).
			AddRow(int64(1), "Produktion", true, true, false, assigned).
			AddRow(int64(2), "Logistik", true, false, false, assigned))

	grants, err := repo.ListDepartmentGrants(context.Background(), 42, 7)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, "Produktion", grants[0].DepartmentName)
	assert.True(t, grants[0].Permissions.CanWrite)
	assert.False(t, grants[1].Permissions.CanWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}
