package welcome

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/eleven-am/accounts-backend/internal/dto"
	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

const (
	title     = "Welcome to Grist!"
	prompt    = "What brings you to Grist? Please help us serve you better."
	saveLabel = "Start using Grist"

	maxUseOtherLength = 1000
)

// Prefs reads and clears the per-user flag that shows the welcome form.
type Prefs interface {
	ShowNewUserQuestions(ctx context.Context, userID int64) (bool, error)
	DismissNewUserQuestions(ctx context.Context, userID int64) error
}

type Handler struct {
	store  *Store
	prefs  Prefs
	policy *bluemonday.Policy
	logger *slog.Logger
}

func NewHandler(store *Store, prefs Prefs, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		prefs:  prefs,
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/questions", h.Questions)
	g.POST("/info", h.Info)
	g.POST("/dismiss", h.Dismiss)
}

// @Summary      Welcome questions
// @Description  Returns the onboarding form and whether it should be shown to the caller.
// @Tags         welcome
// @Produce      json
// @Success      200  {object}  dto.WelcomeQuestionsResponse
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /welcome/questions [get]
func (h *Handler) Questions(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	show, err := h.prefs.ShowNewUserQuestions(c.Request().Context(), identity.UserID)
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to read welcome prefs", "error", err, "user_id", identity.UserID)
		}
		return shared.HTTPError(err, "get_failed", "failed to get welcome questions")
	}

	return c.JSON(http.StatusOK, dto.WelcomeQuestionsResponse{
		Show:      show,
		Title:     title,
		Prompt:    prompt,
		SaveLabel: saveLabel,
		Choices:   toChoiceResponses(choices),
	})
}

// @Summary      Submit welcome answers
// @Description  Records the caller's use cases. The form is dismissed whatever the outcome.
// @Tags         welcome
// @Accept       json
// @Param        request  body  dto.WelcomeInfoRequest  true  "Selected use cases"
// @Success      204
// @Failure      400  {object}  shared.APIError
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /welcome/info [post]
func (h *Handler) Info(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.prefs.DismissNewUserQuestions(ctx, identity.UserID); err != nil {
		h.logger.Error("failed to dismiss welcome questions", "error", err, "user_id", identity.UserID)
	}

	var req dto.WelcomeInfoRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_payload", "Invalid payload")
	}

	useCases, err := normalizeUseCases(req.UseCases)
	if err != nil {
		return shared.BadRequest("invalid_choice", err.Error())
	}

	useOther := ""
	if shared.StringSlice(useCases).Contains(otherChoice) {
		useOther = h.sanitize(req.UseOther)
	}

	resp := &Response{
		UserID:   identity.UserID,
		UseCases: useCases,
		UseOther: useOther,
	}
	if err := h.store.Save(ctx, resp); err != nil {
		h.logger.Error("failed to save welcome response", "error", err, "user_id", identity.UserID)
		return shared.InternalError("save_failed", "failed to save welcome response")
	}

	if _, err := h.store.Publish(ctx, Event{
		ResponseID: resp.ID,
		UserID:     resp.UserID,
		Email:      identity.Email,
		UseCases:   useCases,
		UseOther:   useOther,
		CreatedAt:  resp.CreatedAt,
	}); err != nil {
		h.logger.Warn("failed to publish welcome response", "error", err, "response_id", resp.ID)
	}

	return c.NoContent(http.StatusNoContent)
}

// @Summary      Dismiss welcome questions
// @Tags         welcome
// @Success      204
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /welcome/dismiss [post]
func (h *Handler) Dismiss(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if err := h.prefs.DismissNewUserQuestions(c.Request().Context(), identity.UserID); err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to dismiss welcome questions", "error", err, "user_id", identity.UserID)
		}
		return shared.HTTPError(err, "dismiss_failed", "failed to dismiss welcome questions")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) sanitize(s string) string {
	s = strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(s)))
	if len(s) > maxUseOtherLength {
		s = strings.ToValidUTF8(s[:maxUseOtherLength], "")
	}
	return s
}
