package blog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/silktrader/vernissage/pkg/storage/sqlite"
)

type Storer interface {
	AddPost(ctx context.Context, data AddPostData) (Post, error)
	GetPosts(ctx context.Context) ([]Post, error)
}

type Store struct {
	Connection *sql.DB
}

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

// AddPost publishes a blog post, failing with sqlite.ErrForeignKey when the author doesn't exist.
func (bs *Store) AddPost(ctx context.Context, data AddPostData) (Post, error) {
	result, err := bs.Connection.ExecContext(ctx,
		`INSERT INTO blog_posts (title, content, user_id) VALUES (?, ?, ?)`,
		data.Title, data.Content, data.UserId)

	if sqlite.IsForeignKeyViolation(err) {
		return Post{}, fmt.Errorf("%w: user %d", sqlite.ErrForeignKey, data.UserId)
	}
	if err != nil {
		return Post{}, fmt.Errorf("couldn't add blog post %q: %w", data.Title, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Post{}, err
	}
	return Post{Id: id, Title: data.Title, Content: data.Content, UserId: data.UserId}, nil
}

func (bs *Store) GetPosts(ctx context.Context) ([]Post, error) {
	var posts = make([]Post, 0)

	rows, err := bs.Connection.QueryContext(ctx, `SELECT id, title, content, user_id FROM blog_posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var post Post
		if err = rows.Scan(&post.Id, &post.Title, &post.Content, &post.UserId); err != nil {
			return posts, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
