package department

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assixx/internal/database"
)

func newMockRepo(t *testing.T, driver string) (DepartmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDepartmentRepository(&database.SQLDB{DB: db, Driver: driver}), mock
}

// The postgres driver cannot report LastInsertId, so group creation has
// to fetch the id through RETURNING before inserting members. Without
// that, member rows would be committed with group_id 0.
func TestCreateGroupPostgresPropagatesGeneratedID(t *testing.T) {
	repo, mock := newMockRepo(t, "postgres")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO department_groups").
		WithArgs(int64(7), "Werk Süd", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec("INSERT INTO department_group_members").
		WithArgs(int64(5), int64(11), int64(5), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	group := &Group{TenantID: 7, Name: "Werk Süd", CreatedAt: time.Now()}
	err := repo.CreateGroup(context.Background(), group, []int64{11, 12})
	require.NoError(t, err)
	assert.Equal(t, int64(5), group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroupMySQLPropagatesGeneratedID(t *testing.T) {
	repo, mock := newMockRepo(t, "mysql")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO department_groups").
		WithArgs(int64(7), "Werk Süd", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO department_group_members").
		WithArgs(int64(5), int64(11), int64(5), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	group := &Group{TenantID: 7, Name: "Werk Süd", CreatedAt: time.Now()}
	err := repo.CreateGroup(context.Background(), group, []int64{11, 12})
	require.NoError(t, err)
	assert.Equal(t, int64(5), group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroupWithoutMembersSkipsMemberInsert(t *testing.T) {
	repo, mock := newMockRepo(t, "mysql")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO department_groups").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	group := &Group{TenantID: 7, Name: "Leer", CreatedAt: time.Now()}
	err := repo.CreateGroup(context.Background(), group, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePostgresReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t, "postgres")

	mock.ExpectQuery("INSERT INTO departments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	dept := &Department{TenantID: 7, Name: "Produktion", IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	err := repo.Create(context.Background(), dept)
	require.NoError(t, err)
	assert.Equal(t, int64(9), dept.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
