// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package space

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kaiwa/internal/platform/dberr"
	"github.com/taibuivan/kaiwa/internal/platform/postgres"
	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// # Space Repository

// PostgresSpaceRepository implements the SpaceRepository interface using pgx.
type PostgresSpaceRepository struct {
	pool *pgxpool.Pool
}

// NewSpaceRepository creates a new PostgreSQL implementation of the SpaceRepository.
func NewSpaceRepository(pool *pgxpool.Pool) *PostgresSpaceRepository {
	return &PostgresSpaceRepository{pool: pool}
}

/*
Create persists a new space and its owner's membership in one transaction.

Parameters:
  - context: context.Context
  - space: *Space

Returns:
  - error: apperr.Conflict on duplicate slug, or connectivity errors
*/
func (repository *PostgresSpaceRepository) Create(context context.Context, space *Space) error {
	const spaceQuery = `
		INSERT INTO core.space (
			id, name, description, slug, ownerid, passwordhash, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	const memberQuery = `
		INSERT INTO core.spacemember (spaceid, userid, joinedat)
		VALUES ($1, $2, $3)`

	if space.CreatedAt.IsZero() {
		space.CreatedAt = time.Now()
	}

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, spaceQuery,
			space.ID,
			space.Name,
			space.Description,
			space.Slug,
			space.OwnerID,
			space.PasswordHash,
			space.CreatedAt,
		); err != nil {
			return err
		}

		_, err := tx.Exec(context, memberQuery, space.ID, space.OwnerID, space.CreatedAt)
		return err
	})

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "Space")
		}
		return fmt.Errorf("postgres_space_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a space by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Space: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresSpaceRepository) FindByID(context context.Context, id string) (*Space, error) {
	const query = `
		SELECT id, name, description, slug, ownerid, passwordhash, createdat
		FROM core.space
		WHERE id = $1`

	space := &Space{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&space.ID,
		&space.Name,
		&space.Description,
		&space.Slug,
		&space.OwnerID,
		&space.PasswordHash,
		&space.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Space")
	}

	return space, nil
}

/*
List returns a page of spaces ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Space: Page of entities
  - int64: Total space count
  - error: Database retrieval failures
*/
func (repository *PostgresSpaceRepository) List(context context.Context, params pagination.Params) ([]*Space, int64, error) {
	const countQuery = "SELECT COUNT(*) FROM core.space"

	var total int64
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_space_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, name, description, slug, ownerid, passwordhash, createdat
		FROM core.space
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_space_repo_list_failed: %w", err)
	}
	defer rows.Close()

	spaces := make([]*Space, 0, params.Limit)
	for rows.Next() {
		space := &Space{}
		if err := rows.Scan(
			&space.ID,
			&space.Name,
			&space.Description,
			&space.Slug,
			&space.OwnerID,
			&space.PasswordHash,
			&space.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_space_repo_scan_failed: %w", err)
		}
		spaces = append(spaces, space)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_space_repo_rows_failed: %w", err)
	}

	return spaces, total, nil
}

/*
Delete removes the space, its memberships, and all of its messages.

Description: Child rows go first to satisfy foreign keys; the whole cascade
commits or rolls back as one unit.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresSpaceRepository) Delete(context context.Context, id string) error {
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, "DELETE FROM core.message WHERE spaceid = $1", id); err != nil {
			return err
		}
		if _, err := tx.Exec(context, "DELETE FROM core.spacemember WHERE spaceid = $1", id); err != nil {
			return err
		}
		_, err := tx.Exec(context, "DELETE FROM core.space WHERE id = $1", id)
		return err
	})

	if err != nil {
		return fmt.Errorf("postgres_space_repo_delete_failed: %w", err)
	}

	return nil
}

// # Membership Repository

/*
AddMember records a user's membership in a space.

Parameters:
  - context: context.Context
  - membership: *Membership

Returns:
  - error: apperr.Conflict if the row already exists, or persistence failures
*/
func (repository *PostgresSpaceRepository) AddMember(context context.Context, membership *Membership) error {
	const query = `
		INSERT INTO core.spacemember (spaceid, userid, joinedat)
		VALUES ($1, $2, $3)`

	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		membership.SpaceID,
		membership.UserID,
		membership.JoinedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "Membership")
		}
		return fmt.Errorf("postgres_space_repo_add_member_failed: %w", err)
	}

	return nil
}

/*
RemoveMember deletes a user's membership row.

Parameters:
  - context: context.Context
  - spaceID: string
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresSpaceRepository) RemoveMember(context context.Context, spaceID, userID string) error {
	const query = "DELETE FROM core.spacemember WHERE spaceid = $1 AND userid = $2"

	_, err := repository.pool.Exec(context, query, spaceID, userID)
	if err != nil {
		return fmt.Errorf("postgres_space_repo_remove_member_failed: %w", err)
	}

	return nil
}

/*
IsMember reports whether the user has joined the space.

Parameters:
  - context: context.Context
  - spaceID: string
  - userID: string

Returns:
  - bool: Membership status
  - error: Database retrieval failures
*/
func (repository *PostgresSpaceRepository) IsMember(context context.Context, spaceID, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM core.spacemember WHERE spaceid = $1 AND userid = $2
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, spaceID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_space_repo_is_member_failed: %w", err)
	}

	return exists, nil
}

/*
ListMembers returns a page of memberships for one space, oldest first.

Parameters:
  - context: context.Context
  - spaceID: string
  - params: pagination.Params

Returns:
  - []*Membership: Page of memberships
  - int64: Total member count
  - error: Database retrieval failures
*/
func (repository *PostgresSpaceRepository) ListMembers(context context.Context, spaceID string, params pagination.Params) ([]*Membership, int64, error) {
	const countQuery = "SELECT COUNT(*) FROM core.spacemember WHERE spaceid = $1"

	var total int64
	if err := repository.pool.QueryRow(context, countQuery, spaceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_space_repo_member_count_failed: %w", err)
	}

	const query = `
		SELECT spaceid, userid, joinedat
		FROM core.spacemember
		WHERE spaceid = $1
		ORDER BY joinedat ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, spaceID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_space_repo_list_members_failed: %w", err)
	}
	defer rows.Close()

	memberships := make([]*Membership, 0, params.Limit)
	for rows.Next() {
		membership := &Membership{}
		if err := rows.Scan(&membership.SpaceID, &membership.UserID, &membership.JoinedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_space_repo_member_scan_failed: %w", err)
		}
		memberships = append(memberships, membership)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_space_repo_member_rows_failed: %w", err)
	}

	return memberships, total, nil
}
