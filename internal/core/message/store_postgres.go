// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kaiwa/internal/platform/dberr"
	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// # Message Repository

// PostgresMessageRepository implements the MessageRepository interface using pgx.
type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new PostgreSQL implementation of the MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

/*
Create persists a new message into the core.message table.

Parameters:
  - context: context.Context
  - message: *Message

Returns:
  - error: apperr.NotFound if the space vanished, or connectivity errors
*/
func (repository *PostgresMessageRepository) Create(context context.Context, message *Message) error {
	const query = `
		INSERT INTO core.message (
			id, spaceid, authorid, body, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	message.UpdatedAt = message.CreatedAt

	_, err := repository.pool.Exec(context, query,
		message.ID,
		message.SpaceID,
		message.AuthorID,
		message.Body,
		message.CreatedAt,
		message.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Space")
	}

	return nil
}

/*
FindByID retrieves a message by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Message: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresMessageRepository) FindByID(context context.Context, id string) (*Message, error) {
	const query = `
		SELECT id, spaceid, authorid, body, createdat, updatedat
		FROM core.message
		WHERE id = $1`

	message := &Message{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&message.ID,
		&message.SpaceID,
		&message.AuthorID,
		&message.Body,
		&message.CreatedAt,
		&message.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Message")
	}

	return message, nil
}

/*
ListBySpace returns a page of messages in one space, newest first.

Parameters:
  - context: context.Context
  - spaceID: string
  - params: pagination.Params

Returns:
  - []*Message: Page of entities
  - int64: Total message count in the space
  - error: Database retrieval failures
*/
func (repository *PostgresMessageRepository) ListBySpace(context context.Context, spaceID string, params pagination.Params) ([]*Message, int64, error) {
	const countQuery = "SELECT COUNT(*) FROM core.message WHERE spaceid = $1"

	var total int64
	if err := repository.pool.QueryRow(context, countQuery, spaceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_message_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, spaceid, authorid, body, createdat, updatedat
		FROM core.message
		WHERE spaceid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, spaceID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_message_repo_list_failed: %w", err)
	}
	defer rows.Close()

	messages := make([]*Message, 0, params.Limit)
	for rows.Next() {
		message := &Message{}
		if err := rows.Scan(
			&message.ID,
			&message.SpaceID,
			&message.AuthorID,
			&message.Body,
			&message.CreatedAt,
			&message.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_message_repo_scan_failed: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_message_repo_rows_failed: %w", err)
	}

	return messages, total, nil
}

/*
Update persists a changed message body.

Parameters:
  - context: context.Context
  - message: *Message

Returns:
  - error: Update failures
*/
func (repository *PostgresMessageRepository) Update(context context.Context, message *Message) error {
	const query = `
		UPDATE core.message
		SET body = $2, updatedat = $3
		WHERE id = $1`

	message.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query, message.ID, message.Body, message.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_message_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete removes a message permanently.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresMessageRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.message WHERE id = $1"

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_message_repo_delete_failed: %w", err)
	}

	return nil
}
