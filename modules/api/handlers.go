package api

import (
	"errors"
	"strconv"
	"strings"

	categorydomain "github.com/example/event-planner/domain/category"
	eventdomain "github.com/example/event-planner/domain/event"
	domain "github.com/example/event-planner/domain/user"
	"github.com/example/event-planner/modules/audit"
	"github.com/example/event-planner/modules/auth"
	"github.com/example/event-planner/modules/category"
	"github.com/example/event-planner/modules/event"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth       auth.AuthPort
	categories category.CategoryPort
	events     event.EventPort
	activity   audit.ActivityPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ports Ports) *Handlers {
	return &Handlers{
		auth:       ports.Auth,
		categories: ports.Categories,
		events:     ports.Events,
		activity:   ports.Activity,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Msg: "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Msg: "Email and password are required"})
	}

	if _, err := h.auth.Register(c.UserContext(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Msg: "Email already in use"})
		case errors.Is(err, auth.ErrPasswordTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Msg: "Password must be at most 72 bytes"})
		default:
			return internalError(c, "register failed", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{Msg: "usuario creado"})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Email and password are required",
		})
	}

	tokens, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return authFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newTokenResponse(tokens))
}

// Refresh mints a new access token. The refresh token is read from the
// Authorization header only.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   codeMissingToken,
			Message: "Authorization header must be: Bearer <refresh token>",
		})
	}

	tokens, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		return authFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newTokenResponse(tokens))
}

// Me returns the authenticated caller's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	identity, _ := IdentityFrom(c)

	user, err := h.auth.GetUser(c.UserContext(), identity.ID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return authFailure(c, auth.ErrUnknownSubject)
		}
		return internalError(c, "failed to load profile", err)
	}

	return c.Status(fiber.StatusOK).JSON(newProfileResponse(user))
}

// UpdateUser lets an admin change roles or the active flag of any account.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "User not found")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Roles == nil && req.IsActive == nil {
		return badRequest(c, "Nothing to update: provide roles and/or is_active")
	}

	changes := domain.Changes{IsActive: req.IsActive}
	if req.Roles != nil {
		roles := domain.Roles(*req.Roles)
		changes.Roles = &roles
	}

	user, err := h.auth.UpdateUser(c.UserContext(), id, changes)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c, "failed to update user", err)
	}

	return c.Status(fiber.StatusOK).JSON(newProfileResponse(user))
}

// Activity lists the most recent audit entries.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	entries, err := h.activity.Recent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return internalError(c, "failed to load activity", err)
	}
	return c.Status(fiber.StatusOK).JSON(ActivityResponse{Entries: entries})
}

// ListCategories returns every category.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return internalError(c, "failed to list categories", err)
	}
	return c.Status(fiber.StatusOK).JSON(categories)
}

// CreateCategory stores a new category.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var in categorydomain.Input
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(in.Name) == "" {
		return badRequest(c, "Name is required")
	}

	created, err := h.categories.Create(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, category.ErrNameRequired) {
			return badRequest(c, "Name is required")
		}
		return internalError(c, "failed to create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetCategory returns one category.
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Category not found")
	}

	found, err := h.categories.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return notFound(c, "Category not found")
		}
		return internalError(c, "failed to get category", err)
	}
	return c.Status(fiber.StatusOK).JSON(found)
}

// ListEvents returns the caller's events.
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	identity, _ := IdentityFrom(c)

	list, err := h.events.List(c.UserContext(), identity.ID)
	if err != nil {
		return internalError(c, "failed to list events", err)
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// CreateEvent stores an event owned by the caller.
func (h *Handlers) CreateEvent(c *fiber.Ctx) error {
	identity, _ := IdentityFrom(c)

	var in eventdomain.Input
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(in.Title) == "" {
		return badRequest(c, "Title is required")
	}

	created, err := h.events.Create(c.UserContext(), identity.ID, in)
	if err != nil {
		return h.eventError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetEvent returns one of the caller's events.
func (h *Handlers) GetEvent(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c)
	if err != nil {
		return h.eventError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(e)
}

// UpdateEvent replaces the editable fields of one of the caller's events.
func (h *Handlers) UpdateEvent(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c)
	if err != nil {
		return h.eventError(c, err)
	}

	var in eventdomain.Input
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(in.Title) == "" {
		return badRequest(c, "Title is required")
	}

	updated, err := h.events.Update(c.UserContext(), e.ID, in)
	if err != nil {
		return h.eventError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteEvent removes one of the caller's events.
func (h *Handlers) DeleteEvent(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c)
	if err != nil {
		return h.eventError(c, err)
	}

	if _, err := h.events.Delete(c.UserContext(), e.ID); err != nil {
		return h.eventError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownedEvent loads the event named by :id and checks the caller owns it.
func (h *Handlers) ownedEvent(c *fiber.Ctx) (*eventdomain.Event, error) {
	id, ok := paramID(c)
	if !ok {
		return nil, event.ErrNotFound
	}

	e, err := h.events.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}

	identity, _ := IdentityFrom(c)
	if err := Authorize(identity, e.UserID); err != nil {
		return nil, err
	}
	return e, nil
}

func (h *Handlers) eventError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   codeForbidden,
			Message: "You do not own this event",
		})
	case errors.Is(err, event.ErrNotFound):
		return notFound(c, "Event not found")
	case errors.Is(err, event.ErrTitleRequired):
		return badRequest(c, "Title is required")
	case errors.Is(err, event.ErrUnknownCategory):
		return badRequest(c, "Unknown category")
	default:
		return internalError(c, "event operation failed", err)
	}
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: msg,
	})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: msg,
	})
}

func newTokenResponse(p *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
		TokenType:    p.TokenType,
	}
}

func newProfileResponse(u *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     domain.NewRoles(u.Roles...),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
