package user

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)
	return db, mock
}

func TestIsAdmin(t *testing.T) {
	db, mock := newMockDB(t)

	tests := []struct {
		name           string
		userID         uint
		mockRows       *sqlmock.Rows
		expectedResult bool
		expectedError  bool
	}{
		{
			name:           "User is admin",
			userID:         1,
			mockRows:       sqlmock.NewRows([]string{"is_admin"}).AddRow(true),
			expectedResult: true,
			expectedError:  false,
		},
		{
			name:           "User is not admin",
			userID:         2,
			mockRows:       sqlmock.NewRows([]string{"is_admin"}).AddRow(false),
			expectedResult: false,
			expectedError:  false,
		},
		{
			name:           "User does not exist",
			userID:         3,
			mockRows:       sqlmock.NewRows([]string{"is_admin"}),
			expectedResult: false,
			expectedError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery(`SELECT`).WillReturnRows(tt.mockRows)

			result, err := IsAdmin(db, tt.userID)

			assert.Equal(t, tt.expectedResult, result)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExistsByUsername(t *testing.T) {
	db, mock := newMockDB(t)

	tests := []struct {
		name           string
		username       string
		mockRows       *sqlmock.Rows
		expectedResult bool
	}{
		{
			name:           "Username taken",
			username:       "danbi",
			mockRows:       sqlmock.NewRows([]string{"count"}).AddRow(1),
			expectedResult: true,
		},
		{
			name:           "Username free",
			username:       "nobody",
			mockRows:       sqlmock.NewRows([]string{"count"}).AddRow(0),
			expectedResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery(`SELECT count`).WillReturnRows(tt.mockRows)

			result, err := ExistsByUsername(db, tt.username)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedResult, result)
		})
	}
}
