package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KV is a named-record store. Get reports found=false for a missing
// record; it never returns an error for absence.
type KV interface {
	Get(ctx context.Context, name string) (data []byte, found bool, err error)
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

const recordsTable = "records"

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Get returns the stored bytes for name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, bool, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table(recordsTable)).
		Where(entsql.EQ("name", name)).
		Query()

	var data string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get record %q: %w", name, err)
	}
	return []byte(data), true, nil
}

// Put creates or replaces the record for name.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	query, args := builder().
		Insert(recordsTable).
		Columns("name", "data", "updated_at").
		Values(name, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put record %q: %w", name, err)
	}
	return nil
}

// Delete removes the record for name. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	query, args := builder().
		Delete(recordsTable).
		Where(entsql.EQ("name", name)).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete record %q: %w", name, err)
	}
	return nil
}

// Names lists the stored record names in lexical order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("name").
		From(entsql.Table(recordsTable)).
		OrderBy("name").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan record name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
