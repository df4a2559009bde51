// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kaiwa/internal/platform/middleware"
	requestutil "github.com/taibuivan/kaiwa/internal/platform/request"
	"github.com/taibuivan/kaiwa/internal/platform/respond"
	"github.com/taibuivan/kaiwa/internal/platform/validate"
	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the HTTP layer for messages.
type Handler struct {
	messageService *Service
	postGuard      func(http.Handler) http.Handler
}

// NewHandler constructs a new message [Handler].
//
// # Parameters
//   - service: The message service.
//   - postGuard: Shared fixed-window budget middleware mounted on message creation.
func NewHandler(service *Service, postGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{
		messageService: service,
		postGuard:      postGuard,
	}
}

// SpaceRoutes returns the routes nested under /spaces/{id}/messages.
//
// The {id} URL parameter is bound by the parent mount point.
//
// # Endpoints
//   - POST / : Posts a message into the space (budgeted).
//   - GET  / : Lists the space's messages, paginated.
func (handler *Handler) SpaceRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.With(handler.postGuard).Post("/", handler.create)
	router.Get("/", handler.list)

	return router
}

// Routes returns the standalone message routes mounted at /messages.
//
// # Endpoints
//   - GET    /{id} : Retrieves one message (members of its space only).
//   - PUT    /{id} : Edits the caller's own message.
//   - DELETE /{id} : Deletes the caller's own message.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.edit)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type bodyRequest struct {
	Body string `json:"body"`
}

/*
Create posts a new message into a space.

POST /api/v1/spaces/{id}/messages

Request:
  - Body: bodyRequest (Body)

Response:
  - 201: Message: Created message
  - 400: ErrInvalidJSON/Validation: Blank or over-long body
  - 403: ErrForbidden: Caller is not a member
  - 404: ErrNotFound: No such space
  - 429: ErrRateLimited: Posting budget exhausted
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	spaceID := requestutil.ID(request, "id")

	var input bodyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.messageService.Create(request.Context(), spaceID, userID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
List returns a page of a space's messages, newest first.

GET /api/v1/spaces/{id}/messages

Response:
  - 200: []Message with pagination metadata
  - 403: ErrForbidden: Caller is not a member
  - 404: ErrNotFound: No such space
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	spaceID := requestutil.ID(request, "id")
	params := pagination.FromRequest(request)

	messages, total, err := handler.messageService.ListBySpace(request.Context(), spaceID, userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, messages, pagination.NewMeta(params, total))
}

/*
Get retrieves a single message.

GET /api/v1/messages/{id}

Response:
  - 200: Message
  - 403: ErrForbidden: Caller is not a member of the message's space
  - 404: ErrNotFound: No such message
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messageID := requestutil.ID(request, "id")

	found, err := handler.messageService.Get(request.Context(), messageID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
Edit replaces the body of the caller's own message.

PUT /api/v1/messages/{id}

Request:
  - Body: bodyRequest (Body)

Response:
  - 200: Message: The updated message
  - 400: ErrInvalidJSON/Validation: Blank or over-long body
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: No such message
*/
func (handler *Handler) edit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messageID := requestutil.ID(request, "id")

	var input bodyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.messageService.Edit(request.Context(), messageID, userID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Delete removes the caller's own message.

DELETE /api/v1/messages/{id}

Response:
  - 204: Message deleted
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: No such message
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messageID := requestutil.ID(request, "id")

	if err := handler.messageService.Delete(request.Context(), messageID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
