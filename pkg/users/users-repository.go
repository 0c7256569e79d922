package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/silktrader/vernissage/pkg/storage/sqlite"
)

type UserRepository interface {
	Register(ctx context.Context, data RegisterData) (User, error)
	Authenticate(ctx context.Context, data LoginData) (User, error)
}

// passwordHasher hashes and verifies passwords; see auth.Hasher.
type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type userRepository struct {
	Connection *sql.DB
	hasher     passwordHasher
}

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func NewRepository(connection *sql.DB, hasher passwordHasher) UserRepository {
	return &userRepository{connection, hasher}
}

// Register stores a new user, failing with ErrDuplicateUser when either the username or the email are taken.
func (ur *userRepository) Register(ctx context.Context, data RegisterData) (User, error) {

	// hash outside the transaction, bcrypt is deliberately slow
	hash, err := ur.hasher.Hash(data.Password)
	if err != nil {
		return User{}, fmt.Errorf("couldn't hash the password of %q: %w", data.Username, err)
	}

	tx, err := ur.Connection.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}

	// rolling back after a transaction commit will result in a safe NOP
	defer tx.Rollback()

	var taken bool
	if err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT TRUE FROM users WHERE username = ? OR email = ?)`,
		data.Username, data.Email,
	).Scan(&taken); err != nil {
		return User{}, fmt.Errorf("couldn't check whether %q exists: %w", data.Username, err)
	}
	if taken {
		return User{}, ErrDuplicateUser
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		data.Username, data.Email, hash)

	// the unique constraints still catch concurrent registrations racing past the check above
	if sqlite.IsUniqueViolation(err) {
		return User{}, ErrDuplicateUser
	}
	if err != nil {
		return User{}, fmt.Errorf("couldn't add user %q: %w", data.Username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return User{}, err
	}

	if err = tx.Commit(); err != nil {
		if sqlite.IsUniqueViolation(err) {
			return User{}, ErrDuplicateUser
		}
		return User{}, err
	}

	return User{
		Id:           id,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: hash,
	}, nil
}

// Authenticate returns the user matching both username and password. Missing users and wrong passwords
// are indistinguishable to callers.
func (ur *userRepository) Authenticate(ctx context.Context, data LoginData) (user User, err error) {
	err = ur.Connection.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE username = ?`,
		data.Username,
	).Scan(&user.Id, &user.Username, &user.Email, &user.PasswordHash)

	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("couldn't fetch user %q: %w", data.Username, err)
	}

	if !ur.hasher.Verify(data.Password, user.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
