package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

var (
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrForeignKey     = errors.New("referenced resource doesn't exist")
)

// Storage owns the connection pool shared by every repository.
type Storage struct {
	Connection *sql.DB
	logger     logrus.FieldLogger
}

// New opens the database found at path, or creates it along with its schema when missing.
// Existing databases are verified against the schema before being handed out.
func New(logger logrus.FieldLogger, path string) (*Storage, error) {
	logger.Info("initialising SQLite DB")

	var connection *sql.DB
	var err error

	// the database already exists, check for its contents
	if _, statErr := os.Stat(path); statErr == nil {
		connection, err = getValidConnection(path)
		if err != nil {
			logger.WithError(err).Error("error while verifying existing database")
			return nil, err
		}
	} else {
		// create the file and initialise the schema; mind the explicit need for foreign keys constraints
		connection, err = sql.Open("sqlite3", getConnectionString(path))
		if err != nil {
			logger.WithError(err).Error("error while creating new database")
			return nil, err
		}
		if _, err = connection.Exec(schema); err != nil {
			logger.WithError(err).Error("error while building database schema")
			_ = connection.Close()
			return nil, err
		}
	}

	// opening the DB will fail silently when the package is compiled without CGO_ENABLED
	if err = connection.Ping(); err != nil {
		_ = connection.Close()
		return nil, err
	}

	return &Storage{Connection: connection, logger: logger}, nil
}

// Ping reports whether the database still answers.
func (s *Storage) Ping(ctx context.Context) error {
	return s.Connection.PingContext(ctx)
}

func (s *Storage) Close() error {
	s.logger.Debug("database stopping")
	return s.Connection.Close()
}

func getValidConnection(path string) (*sql.DB, error) {
	connection, err := sql.Open("sqlite3", getConnectionString(path))
	if err != nil {
		return nil, err
	}

	// read the schema as defined in the storage package; a single connection keeps the in-memory DB alive
	desired, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		_ = connection.Close()
		return nil, err
	}
	defer desired.Close()
	desired.SetMaxOpenConns(1)

	if _, err = desired.Exec(schema); err != nil {
		_ = connection.Close()
		return nil, err
	}

	// compare the defined schema with the actual one found in the existing database
	desiredTables, err := mapSchema(desired)
	if err != nil {
		_ = connection.Close()
		return nil, err
	}
	actualTables, err := mapSchema(connection)
	if err != nil {
		_ = connection.Close()
		return nil, err
	}

	if !sameSchemaMap(desiredTables, actualTables) {
		_ = connection.Close()
		return nil, fmt.Errorf("%w in %s", ErrSchemaMismatch, path)
	}
	return connection, nil
}

func mapSchema(connection *sql.DB) (map[string]string, error) {
	rows, err := connection.Query(`SELECT name, sql FROM sqlite_master WHERE type IN ('table', 'index') AND sql IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// in memory and on file schemas may differ in line endings, depending on the hosting platform
	var replacer = strings.NewReplacer(
		"\r\n", "",
		"\n", "",
		"\t", "",
	)

	var tables = make(map[string]string)
	var name, sqlCode string
	for rows.Next() {
		if err = rows.Scan(&name, &sqlCode); err != nil {
			return tables, err
		}
		tables[name] = replacer.Replace(sqlCode)
	}

	return tables, rows.Err()
}

func sameSchemaMap(first, second map[string]string) bool {
	// the second map might be larger than the first, hence the additional length check
	if len(first) != len(second) {
		return false
	}
	for firstKey, firstValue := range first {
		if secondValue, found := second[firstKey]; !found || secondValue != firstValue {
			return false
		}
	}
	return true
}

// getConnectionString enables foreign keys constraints, waits on locks held by concurrent writers and
// starts write transactions immediately, so that read-then-write transactions can't deadlock.
func getConnectionString(path string) string {
	return path + "?_fk=on&_busy_timeout=5000&_txlock=immediate"
}

// IsUniqueViolation detects UNIQUE constraint failures.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// IsForeignKeyViolation detects inserts referencing missing rows.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
