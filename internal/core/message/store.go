// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import (
	"context"

	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// # Message Data Access

// MessageRepository defines the data access contract for messages.
type MessageRepository interface {

	/*
		Create persists a new message.

		Parameters:
		  - context: context.Context
		  - message: *Message

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, message *Message) error

	/*
		FindByID returns the message with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Message: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Message, error)

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
	ListBySpace(context context.Context, spaceID string, params pagination.Params) ([]*Message, int64, error)

	/*
		Update persists a changed message body and its updated timestamp.

		Parameters:
		  - context: context.Context
		  - message: *Message

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, message *Message) error

	/*
		Delete removes a message permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}
