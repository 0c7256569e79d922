package artworks

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/silktrader/vernissage/pkg/storage/sqlite"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, int64) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	storage, err := sqlite.New(logger, filepath.Join(t.TempDir(), "artworks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	result, err := storage.Connection.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES ('alice', 'a@x.com', 'hash')`)
	require.NoError(t, err)
	userId, err := result.LastInsertId()
	require.NoError(t, err)

	return NewStore(storage.Connection), userId
}

func countRows(t *testing.T, store *Store, table string) (count int) {
	t.Helper()
	require.NoError(t, store.Connection.QueryRow(`SELECT count(*) FROM `+table).Scan(&count))
	return count
}

func TestAddAndGetArtworks(t *testing.T) {
	store, userId := newTestStore(t)
	ctx := context.Background()

	empty, err := store.GetArtworks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := store.AddArtwork(ctx, AddArtworkData{
		Title: "Sunset", Description: "Warm hues", Image: "sunset.png", Category: "painting", UserId: userId,
	})
	require.NoError(t, err)
	second, err := store.AddArtwork(ctx, AddArtworkData{
		Title: "Dawn", Description: "Cold hues", Image: "dawn.png", Category: "photograph", UserId: userId,
	})
	require.NoError(t, err)

	artworks, err := store.GetArtworks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Artwork{first, second}, artworks)
	assert.Equal(t, Artwork{
		Id: first.Id, Title: "Sunset", Description: "Warm hues", Image: "sunset.png", Category: "painting", UserId: userId,
	}, artworks[0])
}

func TestAddArtworkUnknownUser(t *testing.T) {
	store, userId := newTestStore(t)

	_, err := store.AddArtwork(context.Background(), AddArtworkData{
		Title: "Sunset", Description: "Warm hues", Image: "sunset.png", Category: "painting", UserId: userId + 1,
	})
	assert.ErrorIs(t, err, sqlite.ErrForeignKey)
	assert.Zero(t, countRows(t, store, "artworks"))
}

func TestAddFeedback(t *testing.T) {
	store, userId := newTestStore(t)
	ctx := context.Background()

	artwork, err := store.AddArtwork(ctx, AddArtworkData{
		Title: "Sunset", Description: "Warm hues", Image: "sunset.png", Category: "painting", UserId: userId,
	})
	require.NoError(t, err)

	feedback, err := store.AddFeedback(ctx, AddFeedbackData{Content: "Lovely", UserId: userId, ArtworkId: artwork.Id})
	require.NoError(t, err)
	assert.NotZero(t, feedback.Id)

	listed, err := store.GetArtworkFeedback(ctx, artwork.Id)
	require.NoError(t, err)
	assert.Equal(t, []Feedback{feedback}, listed)

	none, err := store.GetArtworkFeedback(ctx, artwork.Id+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddFeedbackDanglingReferences(t *testing.T) {
	store, userId := newTestStore(t)
	ctx := context.Background()

	artwork, err := store.AddArtwork(ctx, AddArtworkData{
		Title: "Sunset", Description: "Warm hues", Image: "sunset.png", Category: "painting", UserId: userId,
	})
	require.NoError(t, err)

	_, err = store.AddFeedback(ctx, AddFeedbackData{Content: "Lovely", UserId: userId, ArtworkId: artwork.Id + 1})
	assert.ErrorIs(t, err, sqlite.ErrForeignKey)

	_, err = store.AddFeedback(ctx, AddFeedbackData{Content: "Lovely", UserId: userId + 1, ArtworkId: artwork.Id})
	assert.ErrorIs(t, err, sqlite.ErrForeignKey)

	assert.Zero(t, countRows(t, store, "feedback"))
}

func TestStoreErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO artworks`)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey})
	_, err = store.AddArtwork(ctx, AddArtworkData{Title: "Sunset", UserId: 9})
	assert.ErrorIs(t, err, sqlite.ErrForeignKey)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, description, image, category, user_id FROM artworks`)).
		WillReturnError(errors.New("disk I/O error"))
	_, err = store.GetArtworks(ctx)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
