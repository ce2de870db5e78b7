package scim

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	scimerrors "github.com/elimity-com/scim/errors"
	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/labstack/echo/v4"
)

const contentType = "application/scim+json"

// publicPaths are readable by any authenticated caller.
var publicPaths = []string{"/Me", "/Schemas", "/ResourceTypes", "/ServiceProviderConfig"}

type Handler struct {
	provider ResourceProvider
	server   http.Handler
	prefix   string
	logger   *slog.Logger
}

// NewHandler builds the SCIM surface mounted under prefix, for example
// /v1/scim/v2.
func NewHandler(provider ResourceProvider, prefix string, logger *slog.Logger) (*Handler, error) {
	server, err := newServer(provider, logger)
	if err != nil {
		return nil, err
	}

	return &Handler{
		provider: provider,
		server:   http.StripPrefix(prefix, server),
		prefix:   prefix,
		logger:   logger,
	}, nil
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/Me", h.Me)
	g.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/Me", h.meNotImplemented)
	g.Any("/*", echo.WrapHandler(h.server))
}

// Gate admits the installation admin and the SCIM service account to every
// SCIM endpoint, and any other authenticated caller to the public paths only.
func Gate(access auth.AccessConfig, prefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := auth.GetIdentity(c)
			if identity == nil {
				return writeError(c, scimerrors.ScimError{
					Detail: "You are not authorized to access this resource!",
					Status: http.StatusForbidden,
				})
			}

			if access.IsAdmin(identity.Email) || access.IsScimService(identity.Email) {
				return next(c)
			}

			rest := strings.TrimPrefix(c.Request().URL.Path, prefix)
			for _, p := range publicPaths {
				if rest == p || strings.HasPrefix(rest, p+"/") {
					return next(c)
				}
			}

			return writeError(c, scimerrors.ScimError{
				Detail: "Resource disallowed for non-admin users",
				Status: http.StatusForbidden,
			})
		}
	}
}

// @Summary      SCIM current user
// @Description  Returns the authenticated caller as a SCIM core User resource.
// @Tags         scim
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /scim/v2/Me [get]
func (h *Handler) Me(c echo.Context) error {
	identity := auth.GetIdentity(c)
	if identity == nil {
		return writeError(c, scimerrors.ScimError{
			Detail: "You are not authorized to access this resource!",
			Status: http.StatusForbidden,
		})
	}

	id := strconv.FormatInt(identity.UserID, 10)
	u, err := h.provider.Fetch(c.Request().Context(), id)
	if err != nil {
		scimErr, internal := translateError(err)
		if internal {
			h.logger.Error("failed to fetch scim me", "error", err, "user_id", identity.UserID)
		}
		return writeError(c, scimErr)
	}

	body := u.attributes()
	body["schemas"] = []string{UserSchema}
	body["id"] = u.ID
	meta := map[string]any{
		"resourceType": "User",
		"location":     h.prefix + "/Users/" + u.ID,
	}
	if u.Created != nil {
		meta["created"] = u.Created.UTC().Format("2006-01-02T15:04:05Z")
	}
	if u.LastModified != nil {
		meta["lastModified"] = u.LastModified.UTC().Format("2006-01-02T15:04:05Z")
	}
	body["meta"] = meta

	return writeJSON(c, http.StatusOK, body)
}

func (h *Handler) meNotImplemented(c echo.Context) error {
	return writeError(c, scimerrors.ScimError{
		Detail: "Only GET is supported on /Me",
		Status: http.StatusNotImplemented,
	})
}

type errorResponse struct {
	Schemas  []string `json:"schemas"`
	Status   string   `json:"status"`
	ScimType string   `json:"scimType,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

func writeError(c echo.Context, scimErr scimerrors.ScimError) error {
	return writeJSON(c, scimErr.Status, errorResponse{
		Schemas:  []string{ErrorSchema},
		Status:   strconv.Itoa(scimErr.Status),
		ScimType: string(scimErr.ScimType),
		Detail:   scimErr.Detail,
	})
}

func writeJSON(c echo.Context, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.Blob(status, contentType, b)
}
