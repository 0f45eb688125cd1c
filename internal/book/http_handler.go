package book

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"bookcatalog/internal/httpx"
)

// CoverField is the multipart field carrying an uploaded cover image.
const CoverField = "coverImage"

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 1 << 20

type HTTPHandler struct {
	service        *Service
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewHTTPHandler(service *Service, logger *slog.Logger, maxUploadBytes int64) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger, maxUploadBytes: maxUploadBytes}
}

// Create handles POST /books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := readBookBody(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := readBookBody(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// UpdateCover handles PATCH /books/cover-image/{id}
// @Summary Upload a cover image
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/cover-image/{id} [patch]
func (h *HTTPHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile(CoverField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			h.writeError(w, r, ErrNoFile)
		case errors.As(err, &maxErr):
			httpx.Error(w, http.StatusRequestEntityTooLarge, "File too large")
		default:
			httpx.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	b, err := h.service.UpdateCover(r.Context(), r.PathValue("id"), header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Healthz handles GET /healthz
func (h *HTTPHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz handles GET /readyz
func (h *HTTPHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", "error", err)
		http.Error(w, "db not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// writeError maps an error kind to its HTTP status.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, ErrNoFile):
		httpx.Error(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicateISBN),
		errors.Is(err, ErrInvalidID):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed",
			"request_id", httpx.RequestIDFrom(r),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// bookFormFields are the fields read from urlencoded create/update bodies.
var bookFormFields = []string{"title", "author", "publishedDate", "ISBN"}

// readBookBody decodes a JSON or urlencoded form body into dst. Form fields
// that are absent stay absent, so partial updates work for both encodings.
func readBookBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return httpx.ReadJSON(r, dst)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	fields := make(map[string]string, len(bookFormFields))
	for _, name := range bookFormFields {
		if r.PostForm.Has(name) {
			fields[name] = r.PostForm.Get(name)
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
