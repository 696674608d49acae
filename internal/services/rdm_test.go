package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestHasAccess(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{"active license", 1, true},
		{"no membership or license", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			mock.ExpectQuery(`SELECT count\(\*\) FROM "organizations" JOIN organization_members`).
				WithArgs(uint(7), "rdm", "active", uint(3)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			ok, err := NewRDMService(db).HasAccess(7, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHasAccessAnyOrganization(t *testing.T) {
	db, mock := newMockDB(t)

	// orgID zero spans all the user's organizations.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "organizations" JOIN organization_members`).
		WithArgs(uint(7), "rdm", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ok, err := NewRDMService(db).HasAccess(7, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjects(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "organization_id", "name", "status"}).
		AddRow(1, 3, "Alpha", "active").
		AddRow(2, 3, "Beta", "archived")

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE organization_id = \$1 ORDER BY name`).
		WithArgs(uint(3)).
		WillReturnRows(rows)

	projects, err := NewRDMService(db).ListProjects(3)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Alpha", projects[0].Name)
	assert.Equal(t, "archived", projects[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE id = \$1 AND organization_id = \$2`).
		WithArgs(uint(99), uint(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewRDMService(db).GetProject(3, 99)
	assert.EqualError(t, err, "project not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
