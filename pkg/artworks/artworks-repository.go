package artworks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/silktrader/vernissage/pkg/storage/sqlite"
)

type Storer interface {
	AddArtwork(ctx context.Context, data AddArtworkData) (Artwork, error)
	GetArtworks(ctx context.Context) ([]Artwork, error)

	AddFeedback(ctx context.Context, data AddFeedbackData) (Feedback, error)
	GetArtworkFeedback(ctx context.Context, artworkId int64) ([]Feedback, error)
}

type Store struct {
	Connection *sql.DB
}

// NewStore returns an artwork repository, or store, which wraps the necessary dependencies
// and provides relevant interface implementations.
func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

// AddArtwork stores an artwork and fails with sqlite.ErrForeignKey when its author doesn't exist.
func (ar *Store) AddArtwork(ctx context.Context, data AddArtworkData) (Artwork, error) {
	result, err := ar.Connection.ExecContext(ctx, `
		INSERT INTO artworks (title, description, image, category, user_id)
		VALUES (?, ?, ?, ?, ?)`,
		data.Title, data.Description, data.Image, data.Category, data.UserId)

	if sqlite.IsForeignKeyViolation(err) {
		return Artwork{}, fmt.Errorf("%w: user %d", sqlite.ErrForeignKey, data.UserId)
	}
	if err != nil {
		return Artwork{}, fmt.Errorf("couldn't add artwork %q: %w", data.Title, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Artwork{}, err
	}

	return Artwork{
		Id:          id,
		Title:       data.Title,
		Description: data.Description,
		Image:       data.Image,
		Category:    data.Category,
		UserId:      data.UserId,
	}, nil
}

// GetArtworks returns every artwork in insertion order.
func (ar *Store) GetArtworks(ctx context.Context) ([]Artwork, error) {

	// initialise empty slice to avoid null serialisation
	var artworks = make([]Artwork, 0)

	rows, err := ar.Connection.QueryContext(ctx, `
		SELECT id, title, description, image, category, user_id FROM artworks ORDER BY id`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	for rows.Next() {
		var artwork Artwork
		if err = rows.Scan(&artwork.Id, &artwork.Title, &artwork.Description,
			&artwork.Image, &artwork.Category, &artwork.UserId); err != nil {
			return artworks, err
		}
		artworks = append(artworks, artwork)
	}

	return artworks, rows.Err()
}

// AddFeedback stores feedback on an artwork. A missing user or artwork results in sqlite.ErrForeignKey
// and no row is created.
func (ar *Store) AddFeedback(ctx context.Context, data AddFeedbackData) (Feedback, error) {
	result, err := ar.Connection.ExecContext(ctx, `
		INSERT INTO feedback (content, user_id, artwork_id) VALUES (?, ?, ?)`,
		data.Content, data.UserId, data.ArtworkId)

	if sqlite.IsForeignKeyViolation(err) {
		return Feedback{}, fmt.Errorf("%w: user %d or artwork %d", sqlite.ErrForeignKey, data.UserId, data.ArtworkId)
	}
	if err != nil {
		return Feedback{}, fmt.Errorf("couldn't add feedback on artwork %d: %w", data.ArtworkId, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Feedback{}, err
	}

	return Feedback{
		Id:        id,
		Content:   data.Content,
		UserId:    data.UserId,
		ArtworkId: data.ArtworkId,
	}, nil
}

// GetArtworkFeedback lists an artwork's feedback in insertion order; unknown artworks yield an empty collection.
func (ar *Store) GetArtworkFeedback(ctx context.Context, artworkId int64) ([]Feedback, error) {
	var feedback = make([]Feedback, 0)

	rows, err := ar.Connection.QueryContext(ctx, `
		SELECT id, content, user_id, artwork_id FROM feedback WHERE artwork_id = ? ORDER BY id`,
		artworkId)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	for rows.Next() {
		var item Feedback
		if err = rows.Scan(&item.Id, &item.Content, &item.UserId, &item.ArtworkId); err != nil {
			return feedback, err
		}
		feedback = append(feedback, item)
	}

	return feedback, rows.Err()
}
