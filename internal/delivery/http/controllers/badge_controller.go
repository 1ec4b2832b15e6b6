package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"minibadge/internal/delivery/http/helpers"
	"minibadge/internal/delivery/http/middleware"
	"minibadge/internal/domain"
)

// MaxImageSize bounds uploaded badge images.
const MaxImageSize = 5 << 20

// ListBadgesResponse is the data of GET /badges.
type ListBadgesResponse struct {
	Items      []*BadgeView           `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListBadgesSuccessResponse is the success response envelope for GET /badges (200).
type ListBadgesSuccessResponse struct {
	Data  ListBadgesResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// BadgeSuccessResponse is the success response envelope for a single badge.
type BadgeSuccessResponse struct {
	Data  *BadgeView        `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateBadgeRequest is the JSON body for PATCH /badges/{slug}. Omitted fields are unchanged.
type UpdateBadgeRequest struct {
	Description *string `json:"description" validate:"omitnil,max=10000"`
}

// AwardBadgeRequest is the request body for POST /badges/{slug}/awards.
type AwardBadgeRequest struct {
	Emails string `json:"emails" validate:"required"`
}

// AwardBadgeResponse is the data of POST /badges/{slug}/awards.
type AwardBadgeResponse struct {
	Awards       []AwardView `json:"awards"`
	NewlyAwarded []string    `json:"newly_awarded"`
}

// AwardBadgeSuccessResponse is the response envelope for POST /badges/{slug}/awards.
// On a partial failure (207) both data and error are set.
type AwardBadgeSuccessResponse struct {
	Data  AwardBadgeResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type BadgeController struct {
	Logger     *slog.Logger
	Badges     domain.BadgeService
	Awards     domain.AwardService
	Assertions domain.AssertionService
	// BaseURL is the configured public origin; empty derives it from each request.
	BaseURL string
}

func NewBadgeController(logger *slog.Logger, badges domain.BadgeService, awards domain.AwardService, assertions domain.AssertionService, baseURL string) *BadgeController {
	return &BadgeController{
		Logger:     logger,
		Badges:     badges,
		Awards:     awards,
		Assertions: assertions,
		BaseURL:    baseURL,
	}
}

func (c *BadgeController) links(r *http.Request) linker {
	return linker{logger: c.Logger, assertions: c.Assertions, baseURL: helpers.BaseURL(r, c.BaseURL)}
}

func (c *BadgeController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := helpers.ErrorStatus(err); status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteServiceError(w, err)
}

// ListBadges godoc
// @Summary List badges
// @Description Paginated list of badges, most recently updated first.
// @Tags badges
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListBadgesSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /badges [get]
func (c *BadgeController) ListBadges(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	badges, total, err := c.Badges.List(r.Context(), params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	links := c.links(r)
	items := make([]*BadgeView, 0, len(badges))
	for _, b := range badges {
		items = append(items, links.badge(r.Context(), b))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListBadgesResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// GetBadge godoc
// @Summary Get a badge
// @Tags badges
// @Produce json
// @Param slug path string true "Badge slug"
// @Success 200 {object} controllers.BadgeSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /badges/{slug} [get]
func (c *BadgeController) GetBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := c.Badges.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.links(r).badge(r.Context(), badge))
}

// CreateBadge godoc
// @Summary Create a badge
// @Description Creates a badge owned by the caller. The slug is derived from the title.
// @Tags badges
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Unique title"
// @Param description formData string false "Description"
// @Param image formData file false "Badge image"
// @Success 201 {object} controllers.BadgeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /badges [post]
func (c *BadgeController) CreateBadge(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "expected multipart form: "+err.Error())
		return
	}
	img, err := formImage(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	badge, err := c.Badges.Create(r.Context(), caller, r.FormValue("title"), r.FormValue("description"), img)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, c.links(r).badge(r.Context(), badge))
}

// UpdateBadge godoc
// @Summary Update a badge
// @Description Changes the description and/or image. Only the creator, staff or superusers may edit.
// @Tags badges
// @Accept json,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Badge slug"
// @Param badge body UpdateBadgeRequest false "JSON body (or multipart description and image fields)"
// @Success 200 {object} controllers.BadgeSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /badges/{slug} [patch]
func (c *BadgeController) UpdateBadge(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var upd domain.BadgeUpdate
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxImageSize); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if vals, ok := r.MultipartForm.Value["description"]; ok && len(vals) > 0 {
			upd.Description = &vals[0]
		}
		img, err := formImage(r)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		upd.Image = img
	} else {
		var req UpdateBadgeRequest
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
		upd.Description = req.Description
	}
	badge, err := c.Badges.Update(r.Context(), caller, r.PathValue("slug"), upd)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.links(r).badge(r.Context(), badge))
}

// AwardBadge godoc
// @Summary Award a badge
// @Description Awards the badge to each listed email (comma, semicolon or whitespace separated) that does not hold it yet, then emails the new recipients. Re-awarding is a no-op.
// @Tags awards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Badge slug"
// @Param body body AwardBadgeRequest true "Recipient emails"
// @Success 201 {object} controllers.AwardBadgeSuccessResponse
// @Success 207 {object} controllers.AwardBadgeSuccessResponse "partial: data holds what was committed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /badges/{slug}/awards [post]
func (c *BadgeController) AwardBadge(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req AwardBadgeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	links := c.links(r)
	res, err := c.Awards.AwardBadge(r.Context(), caller, r.PathValue("slug"), domain.SplitRecipients(req.Emails), links.baseURL)
	if err != nil && (res == nil || len(res.Awards) == 0) {
		c.fail(w, r, err)
		return
	}
	data := AwardBadgeResponse{
		Awards:       links.awards(r.Context(), res.Awards, false),
		NewlyAwarded: res.NewlyAwarded,
	}
	if data.NewlyAwarded == nil {
		data.NewlyAwarded = []string{}
	}
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "award batch partially applied", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSON(w, http.StatusMultiStatus, data, helpers.NewAPIError(err))
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, data)
}

// formImage reads the optional "image" file of a parsed multipart form.
func formImage(r *http.Request) (*domain.ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	defer file.Close()
	return readUpload(file, header)
}

func readUpload(file multipart.File, header *multipart.FileHeader) (*domain.ImageUpload, error) {
	if header.Size > MaxImageSize {
		return nil, fmt.Errorf("image must be at most %d bytes", MaxImageSize)
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("image must be at most %d bytes", MaxImageSize)
	}
	return &domain.ImageUpload{Filename: header.Filename, Data: data}, nil
}
