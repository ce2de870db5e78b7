package user

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/eleven-am/accounts-backend/internal/dto"
	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

// SessionRevoker drops every session issued to a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID int64) error
}

type Handler struct {
	store    *Store
	sessions SessionRevoker
	logger   *slog.Logger
}

func NewHandler(store *Store, sessions SessionRevoker, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// @Summary      Create user
// @Description  Provisions a user with a single login. Restricted to the installation admin.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateUserRequest  true  "User profile"
// @Success      200      {object}  dto.UserResponse
// @Failure      400      {object}  shared.APIError
// @Failure      403      {object}  shared.APIError
// @Failure      409      {object}  shared.APIError
// @Security     BearerAuth
// @Router       /users [post]
func (h *Handler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_payload", "Invalid payload")
	}
	if err := shared.Validate(&req); err != nil {
		return shared.HTTPError(err, "invalid_payload", "Invalid payload")
	}

	u, err := h.store.Create(c.Request().Context(), UserProfile{
		Email:   *req.Email,
		Name:    *req.Name,
		Picture: req.Picture,
		Locale:  req.Locale,
	})
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to create user", "error", err)
		}
		return shared.HTTPError(err, "create_failed", "failed to create user")
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	u, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to get user", "error", err, "user_id", id)
		}
		return shared.HTTPError(err, "get_failed", "failed to get user")
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /users [get]
func (h *Handler) List(c echo.Context) error {
	users, err := h.store.List(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		return shared.InternalError("list_failed", "failed to list users")
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// @Summary      Update user
// @Description  Updates name, picture, locale and the first time flag. The login email is never changed here.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "User ID"
// @Param        request  body      dto.UpdateUserRequest  true  "Fields to update"
// @Success      200      {object}  dto.UserResponse
// @Failure      400      {object}  shared.APIError
// @Failure      403      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *Handler) Update(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_payload", "Invalid payload")
	}

	u, err := h.store.Update(c.Request().Context(), id, Update{
		Name:            req.Name,
		Picture:         req.Picture,
		Locale:          req.Locale,
		IsFirstTimeUser: req.IsFirstTimeUser,
	})
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to update user", "error", err, "user_id", id)
		}
		return shared.HTTPError(err, "update_failed", "failed to update user")
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// @Summary      Delete user
// @Description  Deletes the user and its logins and revokes its sessions.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	u, err := h.store.Delete(ctx, id)
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to delete user", "error", err, "user_id", id)
		}
		return shared.HTTPError(err, "delete_failed", "failed to delete user")
	}

	if h.sessions != nil {
		if err := h.sessions.RevokeUser(ctx, id); err != nil {
			h.logger.Warn("failed to revoke sessions of deleted user", "error", err, "user_id", id)
		}
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

func parseUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.BadRequest("invalid_user_id", "Invalid user id")
	}
	return id, nil
}

func toUserResponse(u *User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Ref:              u.Ref,
		Picture:          u.Picture,
		FirstLoginAt:     formatTime(u.FirstLoginAt),
		LastConnectionAt: formatTime(u.LastConnectionAt),
		IsFirstTimeUser:  u.IsFirstTimeUser,
		ConnectID:        u.ConnectID,
		Logins:           make([]dto.LoginResponse, len(u.Logins)),
	}

	if u.Options != nil {
		resp.Options = &dto.UserOptions{
			Locale:           u.Options.Locale,
			AllowGoogleLogin: u.Options.AllowGoogleLogin,
			IsConsultant:     u.Options.IsConsultant,
			Authentication:   u.Options.Authentication,
		}
	}

	for i, l := range u.Logins {
		resp.Logins[i] = dto.LoginResponse{
			ID:           l.ID,
			Email:        l.Email,
			DisplayEmail: l.DisplayEmail,
		}
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
