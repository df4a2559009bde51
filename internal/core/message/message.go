// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package message implements the messages exchanged inside spaces.

Messages are short (200 characters at most), belong to exactly one space, and
are readable only by that space's members. Authors keep control of their own
messages; nobody else can edit or remove them.
*/
package message

import "time"

// MaxBodyChars is the upper bound on message length, counted in characters
// (Unicode code points), not bytes.
const MaxBodyChars = 200

// # Domain Entities

// Message represents one post inside a space.
type Message struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldBody = "body"
)
