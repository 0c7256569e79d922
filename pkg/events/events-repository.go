package events

import (
	"context"
	"database/sql"
	"fmt"
)

type Storer interface {
	AddEvent(ctx context.Context, data AddEventData) (Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
}

type Store struct {
	Connection *sql.DB
}

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func (es *Store) AddEvent(ctx context.Context, data AddEventData) (Event, error) {
	result, err := es.Connection.ExecContext(ctx,
		`INSERT INTO events (title, description, date) VALUES (?, ?, ?)`,
		data.Title, data.Description, data.Date)
	if err != nil {
		return Event{}, fmt.Errorf("couldn't add event %q: %w", data.Title, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Event{}, err
	}
	return Event{Id: id, Title: data.Title, Description: data.Description, Date: data.Date}, nil
}

func (es *Store) GetEvents(ctx context.Context) ([]Event, error) {
	var events = make([]Event, 0)

	rows, err := es.Connection.QueryContext(ctx, `SELECT id, title, description, date FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event Event
		if err = rows.Scan(&event.Id, &event.Title, &event.Description, &event.Date); err != nil {
			return events, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
