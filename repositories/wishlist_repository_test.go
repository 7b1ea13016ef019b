package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/models"
)

func TestWishlistListExperienceIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWishlistRepository(db)

	mock.ExpectQuery("SELECT `experience_id` FROM `wishlists` WHERE user_id = \\? ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"experience_id"}).AddRow("e1").AddRow("e2"))

	ids, err := repo.ListExperienceIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistFind_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWishlistRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `wishlists` WHERE user_id = \\? AND experience_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "experience_id"}))

	entry, err := repo.Find(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.Nil(t, entry)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistFind_BackendError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWishlistRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `wishlists`").WillReturnError(errors.New("connection reset"))

	_, err := repo.Find(context.Background(), "u1", "e1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWishlistCreateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWishlistRepository(db)

	mock.ExpectExec("INSERT INTO `wishlists`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `wishlists` WHERE id = \\?").WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.Wishlist{UserID: "u1", ExperienceID: "e1"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	require.NoError(t, repo.Delete(context.Background(), entry.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}
