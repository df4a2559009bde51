// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/pkg/pagination"
	"github.com/taibuivan/kaiwa/pkg/uuidv7"
)

// SpaceGate verifies that a caller may operate inside a space.
//
// The message domain only needs this single question answered; the space
// service satisfies the contract directly.
type SpaceGate interface {
	// RequireMember returns apperr.NotFound when the space does not exist and
	// apperr.Forbidden when the user is not a member.
	RequireMember(ctx context.Context, spaceID, userID string) error
}

// Service implements message use cases.
type Service struct {
	messageRepository MessageRepository
	spaces            SpaceGate
}

// NewService constructs a new message [Service].
func NewService(messageRepo MessageRepository, spaces SpaceGate) *Service {
	return &Service{
		messageRepository: messageRepo,
		spaces:            spaces,
	}
}

// # Posting Flow

/*
Create posts a new message into a space.

Description: The caller must be a member of an existing space, and the body
must be non-blank and at most [MaxBodyChars] characters.

Parameters:
  - context: context.Context
  - spaceID: string
  - authorID: string
  - body: string

Returns:
  - *Message: Created entity
  - error: apperr.NotFound (no such space), apperr.Forbidden (non-member),
    apperr.ValidationError (bad body), or storage errors
*/
func (service *Service) Create(context context.Context, spaceID, authorID, body string) (*Message, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}

	if err := service.spaces.RequireMember(context, spaceID, authorID); err != nil {
		return nil, err
	}

	message := &Message{
		ID:       uuidv7.Must(),
		SpaceID:  spaceID,
		AuthorID: authorID,
		Body:     body,
	}

	if err := service.messageRepository.Create(context, message); err != nil {
		return nil, fmt.Errorf("message_service_create_failed: %w", err)
	}

	return message, nil
}

/*
Get returns a single message, visible to members of its space only.

Parameters:
  - context: context.Context
  - messageID: string
  - callerID: string

Returns:
  - *Message: Hydrated entity
  - error: apperr.NotFound, apperr.Forbidden (non-member), or retrieval failures
*/
func (service *Service) Get(context context.Context, messageID, callerID string) (*Message, error) {
	message, err := service.messageRepository.FindByID(context, messageID)
	if err != nil {
		return nil, err
	}

	if err := service.spaces.RequireMember(context, message.SpaceID, callerID); err != nil {
		return nil, err
	}

	return message, nil
}

/*
ListBySpace returns a page of a space's messages, members only.

Parameters:
  - context: context.Context
  - spaceID: string
  - callerID: string
  - params: pagination.Params

Returns:
  - []*Message: Page of entities, newest first
  - int64: Total message count in the space
  - error: apperr.NotFound, apperr.Forbidden, or retrieval failures
*/
func (service *Service) ListBySpace(context context.Context, spaceID, callerID string, params pagination.Params) ([]*Message, int64, error) {
	if err := service.spaces.RequireMember(context, spaceID, callerID); err != nil {
		return nil, 0, err
	}

	return service.messageRepository.ListBySpace(context, spaceID, params)
}

// # Author Controls

/*
Edit replaces the body of the caller's own message.

Parameters:
  - context: context.Context
  - messageID: string
  - callerID: string
  - body: string

Returns:
  - *Message: The updated entity
  - error: apperr.NotFound, apperr.Forbidden (not the author),
    apperr.ValidationError, or storage errors
*/
func (service *Service) Edit(context context.Context, messageID, callerID, body string) (*Message, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}

	message, err := service.messageRepository.FindByID(context, messageID)
	if err != nil {
		return nil, err
	}

	if message.AuthorID != callerID {
		return nil, apperr.Forbidden("Only the author can edit this message")
	}

	message.Body = body
	if err := service.messageRepository.Update(context, message); err != nil {
		return nil, fmt.Errorf("message_service_edit_failed: %w", err)
	}

	return message, nil
}

/*
Delete removes the caller's own message.

Parameters:
  - context: context.Context
  - messageID: string
  - callerID: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden (not the author), or storage errors
*/
func (service *Service) Delete(context context.Context, messageID, callerID string) error {
	message, err := service.messageRepository.FindByID(context, messageID)
	if err != nil {
		return err
	}

	if message.AuthorID != callerID {
		return apperr.Forbidden("Only the author can delete this message")
	}

	return service.messageRepository.Delete(context, messageID)
}

// validateBody enforces the non-blank and length rules on a message body.
// Length counts characters, so a 200-rune message of multi-byte text is valid.
func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return apperr.ValidationError("Message body must not be blank")
	}
	if utf8.RuneCountInString(body) > MaxBodyChars {
		return apperr.ValidationError(fmt.Sprintf("Message body must be at most %d characters", MaxBodyChars))
	}
	return nil
}
