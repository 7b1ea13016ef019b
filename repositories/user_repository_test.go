package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFindByAuthID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE auth_id = \\?").
		WithArgs("auth-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "auth_id", "email", "preferences"}).
			AddRow("u1", "auth-1", "jane@example.com", []byte(`{"city":"Lyon"}`)))

	user, err := repo.FindByAuthID(context.Background(), "auth-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Lyon", user.City())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateByAuthID_MissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE `users` SET .* WHERE auth_id = \\?").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE auth_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.UpdateByAuthID(context.Background(), "ghost", map[string]interface{}{"email": "x@y.z"})
	require.NoError(t, err)
	assert.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}
