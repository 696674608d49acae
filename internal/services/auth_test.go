package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name:    "invalid email",
			req:     RegisterRequest{Email: "not-an-email", Password: "longenough"},
			wantErr: "invalid email format",
		},
		{
			name:    "short password",
			req:     RegisterRequest{Email: "user@primith.com", Password: "short"},
			wantErr: "password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			_, err := NewAuthService(db, "test-secret", nil).Register(tt.req)
			assert.EqualError(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet(), "validation failures must not reach the database")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(5, "user@primith.com"))

	_, err := NewAuthService(db, "test-secret", nil).Register(RegisterRequest{
		Email:    "user@primith.com",
		Password: "longenough",
	})
	assert.EqualError(t, err, "email is already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptInvitationInvalidToken(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "invitation_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewAuthService(db, "test-secret", nil).AcceptInvitation(AcceptInvitationRequest{
		Token:    "stale-token",
		Password: "longenough",
	})
	assert.EqualError(t, err, "invalid or expired invitation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptInvitationReactivatesExistingUser(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "invitation_tokens"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "organization_id", "invited_by", "token", "expires_at", "is_used"}).
			AddRow(1, "user@primith.com", 3, 2, "invite-token", time.Now().Add(time.Hour), false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "is_active"}).
			AddRow(5, "user@primith.com", "old-hash", false))
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO organization_members`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "invitation_tokens" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	response, err := NewAuthService(db, "test-secret", nil).AcceptInvitation(AcceptInvitationRequest{
		Token:    "invite-token",
		Password: "NewPassw0rd",
	})
	require.NoError(t, err)
	require.NotNil(t, response)

	assert.True(t, response.User.IsActive, "a deactivated invitee must be reactivated")
	assert.True(t, response.User.CheckPassword("NewPassw0rd"), "the submitted password must apply")
	assert.NotEmpty(t, response.Tokens.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
