// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package space

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

// Handler implements the HTTP layer for space management.
type Handler struct {
	spaceService *Service
}

// NewHandler constructs a new space [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{spaceService: service}
}

// Routes returns a [chi.Router] configured with the space domain's endpoints.
//
// All endpoints require authentication. The message sub-router is mounted
// under /{id}/messages so the message domain can resolve the space from the
// URL without depending on this package's routing.
//
// # Endpoints
//   - POST   /              : Opens a new space.
//   - GET    /              : Lists spaces, paginated.
//   - GET    /{id}          : Retrieves one space.
//   - DELETE /{id}          : Deletes a space (owner only).
//   - POST   /{id}/join     : Joins a space, presenting its password if protected.
//   - POST   /{id}/leave    : Leaves a space.
//   - GET    /{id}/members  : Lists memberships (members only).
//   - *      /{id}/messages : Message endpoints (mounted).
func (handler *Handler) Routes(messages chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Delete("/{id}", handler.delete)
	router.Post("/{id}/join", handler.join)
	router.Post("/{id}/leave", handler.leave)
	router.Get("/{id}/members", handler.listMembers)
	router.Mount("/{id}/messages", messages)

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Password    string `json:"password,omitempty"`
}

type joinRequest struct {
	Password string `json:"password,omitempty"`
}

/*
Create opens a new space.

POST /api/v1/spaces

Request:
  - Body: createRequest (Name, optional Description, optional Password)

Response:
  - 201: Space: Created space
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: A space with this name already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		MaxLen(FieldDescription, input.Description, 500)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.spaceService.Create(request.Context(), userID, CreateInput{
		Name:        input.Name,
		Description: input.Description,
		Password:    input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
List returns a page of spaces.

GET /api/v1/spaces

Response:
  - 200: []Space with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	spaces, total, err := handler.spaceService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, spaces, pagination.NewMeta(params, total))
}

/*
Get retrieves a single space.

GET /api/v1/spaces/{id}

Response:
  - 200: Space
  - 404: ErrNotFound: No such space
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	spaceID := requestutil.ID(request, "id")

	found, err := handler.spaceService.Get(request.Context(), spaceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
Delete removes a space together with its memberships and messages.

DELETE /api/v1/spaces/{id}

Response:
  - 204: Space deleted
  - 403: ErrForbidden: Caller is not the owner
  - 404: ErrNotFound: No such space
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	spaceID := requestutil.ID(request, "id")

	if err := handler.spaceService.Delete(request.Context(), spaceID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Join adds the caller to a space.

POST /api/v1/spaces/{id}/join

Request:
  - Body: joinRequest (optional Password)

Response:
  - 201: Membership: The new membership
  - 401: ErrUnauthorized: Wrong space password
  - 403: ErrForbidden: Password required but not provided
  - 404: ErrNotFound: No such space
  - 409: ErrConflict: Already a member
*/
func (handler *Handler) join(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	spaceID := requestutil.ID(request, "id")

	// The body is optional: open spaces are joined with no payload at all.
	var input joinRequest
	_ = requestutil.DecodeJSON(request, &input)

	membership, err := handler.spaceService.Join(request.Context(), spaceID, userID, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, membership)
}

/*
Leave removes the caller's membership.

POST /api/v1/spaces/{id}/leave

Response:
  - 204: Membership removed
  - 403: ErrForbidden: Owner cannot leave, or caller is not a member
  - 404: ErrNotFound: No such space
*/
func (handler *Handler) leave(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	spaceID := requestutil.ID(request, "id")

	if err := handler.spaceService.Leave(request.Context(), spaceID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListMembers returns a page of memberships for a space.

GET /api/v1/spaces/{id}/members

Response:
  - 200: []Membership with pagination metadata
  - 403: ErrForbidden: Caller is not a member
  - 404: ErrNotFound: No such space
*/
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	spaceID := requestutil.ID(request, "id")
	params := pagination.FromRequest(request)

	memberships, total, err := handler.spaceService.ListMembers(request.Context(), spaceID, userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, memberships, pagination.NewMeta(params, total))
}
