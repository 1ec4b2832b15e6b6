package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"minibadge/internal/delivery/http/helpers"
	"minibadge/internal/domain"
)

// AwardSuccessResponse is the success response envelope for GET /awards/{slug} (200).
type AwardSuccessResponse struct {
	Data  AwardView         `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ClaimResponse lists every award held by an email.
type ClaimResponse struct {
	Email  string      `json:"email"`
	Awards []AwardView `json:"awards"`
}

// ClaimSuccessResponse is the success response envelope for GET /claims/{email} (200).
type ClaimSuccessResponse struct {
	Data  ClaimResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AwardController serves the public award pages and assertions.
type AwardController struct {
	Logger     *slog.Logger
	Badges     domain.BadgeService
	Assertions domain.AssertionService
	BaseURL    string
}

func NewAwardController(logger *slog.Logger, badges domain.BadgeService, assertions domain.AssertionService, baseURL string) *AwardController {
	return &AwardController{
		Logger:     logger,
		Badges:     badges,
		Assertions: assertions,
		BaseURL:    baseURL,
	}
}

func (c *AwardController) links(r *http.Request) linker {
	return linker{logger: c.Logger, assertions: c.Assertions, baseURL: helpers.BaseURL(r, c.BaseURL)}
}

func (c *AwardController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := helpers.ErrorStatus(err); status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteServiceError(w, err)
}

// GetAward godoc
// @Summary Get an award
// @Tags awards
// @Produce json
// @Param slug path string true "Award slug"
// @Success 200 {object} controllers.AwardSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /awards/{slug} [get]
func (c *AwardController) GetAward(w http.ResponseWriter, r *http.Request) {
	award, err := c.Badges.GetAward(r.Context(), r.PathValue("slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.links(r).award(r.Context(), award, true))
}

// GetAssertion godoc
// @Summary Get an award assertion
// @Description Returns the OBI 0.5.0 assertion document as raw JSON, without the response envelope.
// @Tags awards
// @Produce json
// @Param slug path string true "Award slug"
// @Success 200 {object} domain.Assertion
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable"
// @Router /awards/{slug}/assertion [get]
func (c *AwardController) GetAssertion(w http.ResponseWriter, r *http.Request) {
	assertion, err := c.Assertions.AssertionForSlug(r.Context(), r.PathValue("slug"), helpers.BaseURL(r, c.BaseURL))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(assertion)
}

// GetClaims godoc
// @Summary List the awards of an email
// @Tags awards
// @Produce json
// @Param email path string true "Recipient email"
// @Success 200 {object} controllers.ClaimSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /claims/{email} [get]
func (c *AwardController) GetClaims(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	awards, err := c.Badges.ListAwardsByEmail(r.Context(), email)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ClaimResponse{
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Awards: c.links(r).awards(r.Context(), awards, true),
	})
}
