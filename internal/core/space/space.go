// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package space implements the shared conversation rooms of the Kaiwa platform.

A space is a named room that members join to exchange messages. Spaces can be
protected with an optional password; joining a protected space requires
presenting it.

# Architecture

  - Entity: Space and Membership, free of transport or storage concerns.
  - Service: Orchestrates creation, join/leave flows, and owner-only deletion.
  - Repository: Postgres-backed storage with a transactional cascade delete.
*/
package space

import "time"

// # Domain Entities

// Space represents a conversation room.
type Space struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Slug         string    `json:"slug"`
	OwnerID      string    `json:"owner_id"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// Protected reports whether joining this space requires a password.
func (space *Space) Protected() bool {
	return space.PasswordHash != ""
}

// Membership links a user to a space they have joined.
type Membership struct {
	SpaceID  string    `json:"space_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPassword    = "password"
	FieldSpaceID     = "space_id"
)
