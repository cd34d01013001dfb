package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/postboard/postboard/internal/service"
	"github.com/postboard/postboard/pkg/httputil"
	"github.com/postboard/postboard/pkg/middleware"
	"github.com/postboard/postboard/pkg/pagination"
	"github.com/postboard/postboard/pkg/validator"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post HTTP handler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: svc, logger: logger}
}

// CreatePostRequest is the JSON request body for creating a post.
type CreatePostRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=200"`
	Content   *string `json:"content,omitempty" validate:"omitempty,max=10000"`
	Published bool    `json:"published"`
}

// Create handles POST /api/v1/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	authorID := middleware.UserIDFromContext(r.Context())

	post, err := h.service.Create(r.Context(), authorID, service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: post})
}

// List handles GET /api/v1/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.service.List(r.Context(), params.Page, params.PageSize)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
