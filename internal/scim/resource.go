package scim

import (
	"errors"
	"log/slog"
	"net/http"

	scimserver "github.com/elimity-com/scim"
	scimerrors "github.com/elimity-com/scim/errors"
	"github.com/elimity-com/scim/optional"
	"github.com/elimity-com/scim/schema"
	"github.com/eleven-am/accounts-backend/internal/shared"
)

// resourceHandler adapts a ResourceProvider to the protocol server's
// resource handler.
type resourceHandler struct {
	provider ResourceProvider
	logger   *slog.Logger
}

func newServer(provider ResourceProvider, logger *slog.Logger) (scimserver.Server, error) {
	return scimserver.NewServer(&scimserver.ServerArgs{
		ServiceProviderConfig: &scimserver.ServiceProviderConfig{
			SupportFiltering: true,
			SupportPatch:     false,
		},
		ResourceTypes: []scimserver.ResourceType{
			{
				ID:          optional.NewString("User"),
				Name:        "User",
				Endpoint:    "/Users",
				Description: optional.NewString("User Account"),
				Schema:      schema.CoreUserSchema(),
				Handler:     &resourceHandler{provider: provider, logger: logger},
			},
		},
	})
}

func (h *resourceHandler) Create(r *http.Request, attrs scimserver.ResourceAttributes) (scimserver.Resource, error) {
	in, err := userFromAttributes(attrs)
	if err != nil {
		return scimserver.Resource{}, h.translate(err)
	}

	u, err := h.provider.Create(r.Context(), in)
	if err != nil {
		return scimserver.Resource{}, h.translate(err)
	}
	return toResource(u), nil
}

func (h *resourceHandler) Get(r *http.Request, id string) (scimserver.Resource, error) {
	u, err := h.provider.Fetch(r.Context(), id)
	if err != nil {
		return scimserver.Resource{}, h.translate(err)
	}
	return toResource(u), nil
}

func (h *resourceHandler) GetAll(r *http.Request, params scimserver.ListRequestParams) (scimserver.Page, error) {
	users, err := h.provider.List(r.Context(), FilterPredicate(params.FilterValidator))
	if err != nil {
		return scimserver.Page{}, h.translate(err)
	}

	page := paginate(users, params.StartIndex, params.Count)
	resources := make([]scimserver.Resource, len(page))
	for i, u := range page {
		resources[i] = toResource(u)
	}
	return scimserver.Page{TotalResults: len(users), Resources: resources}, nil
}

func (h *resourceHandler) Replace(r *http.Request, id string, attrs scimserver.ResourceAttributes) (scimserver.Resource, error) {
	in, err := userFromAttributes(attrs)
	if err != nil {
		return scimserver.Resource{}, h.translate(err)
	}

	u, err := h.provider.Update(r.Context(), id, in)
	if err != nil {
		return scimserver.Resource{}, h.translate(err)
	}
	return toResource(u), nil
}

func (h *resourceHandler) Delete(r *http.Request, id string) error {
	if err := h.provider.Delete(r.Context(), id); err != nil {
		return h.translate(err)
	}
	return nil
}

func (h *resourceHandler) Patch(r *http.Request, id string, operations []scimserver.PatchOperation) (scimserver.Resource, error) {
	return scimserver.Resource{}, scimerrors.ScimError{
		Detail: "PATCH is not supported",
		Status: http.StatusNotImplemented,
	}
}

// translate maps a domain error to a SCIM error, logging the ones whose
// detail is not safe to expose.
func (h *resourceHandler) translate(err error) scimerrors.ScimError {
	scimErr, internal := translateError(err)
	if internal {
		h.logger.Error("scim request failed", "error", err)
	}
	return scimErr
}

// translateError reports whether err was an unexpected failure in its
// second result.
func translateError(err error) (scimerrors.ScimError, bool) {
	var ce *shared.ConstraintError
	if errors.As(err, &ce) && ce.Kind != shared.ConstraintUnique {
		return internalError(), true
	}

	if errors.Is(err, shared.ErrConflict) {
		detail := duplicateEmailMessage
		var e *shared.Error
		if errors.As(err, &e) {
			detail = e.Message
		}
		return scimerrors.ScimError{
			ScimType: scimerrors.ScimTypeUniqueness,
			Detail:   detail,
			Status:   http.StatusConflict,
		}, false
	}

	var e *shared.Error
	if errors.As(err, &e) {
		status := shared.StatusOf(err)
		if status == http.StatusInternalServerError {
			return internalError(), true
		}
		scimErr := scimerrors.ScimError{Detail: e.Message, Status: status}
		if errors.Is(err, shared.ErrInvalidPayload) || errors.Is(err, shared.ErrInvalidEmail) {
			scimErr.ScimType = scimerrors.ScimTypeInvalidValue
		}
		return scimErr, false
	}

	return internalError(), true
}

func internalError() scimerrors.ScimError {
	return scimerrors.ScimError{Detail: "Internal server error", Status: http.StatusInternalServerError}
}

func toResource(u *User) scimserver.Resource {
	return scimserver.Resource{
		ID:         u.ID,
		Attributes: u.attributes(),
		Meta: scimserver.Meta{
			Created:      u.Created,
			LastModified: u.LastModified,
		},
	}
}

// paginate applies 1-based startIndex and count. A count of zero returns no
// resources, only the total.
func paginate(users []*User, startIndex, count int) []*User {
	start := startIndex - 1
	if start < 0 {
		start = 0
	}
	if start >= len(users) || count <= 0 {
		return nil
	}

	end := start + count
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
