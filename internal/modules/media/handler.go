package media

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"photogallery/internal/domain"
	"photogallery/internal/pkg/response"
	"photogallery/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /categories/:category/media. The multipart field
// "photos" may carry multiple files; they are processed sequentially, each to
// completion, and every file of the batch is reported back as stored, skipped
// or failed.
func (h *Handler) Upload(c *gin.Context) {
	category := c.Param("category")
	if _, err := storage.SanitizeName(category); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_CATEGORY", "Invalid category name")
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the configured size limit")
			return
		}
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Failed to parse multipart form")
		return
	}

	files := c.Request.MultipartForm.File["photos"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "NO_FILES", "No files in the photos field")
		return
	}

	report := UploadReport{
		Stored:  []IngestResult{},
		Skipped: []SkippedFile{},
		Failed:  []FailedFile{},
	}

	for _, fh := range files {
		if fh.Filename == "" {
			report.Skipped = append(report.Skipped, SkippedFile{Filename: "", Reason: "empty filename"})
			continue
		}

		src, err := fh.Open()
		if err != nil {
			report.Failed = append(report.Failed, FailedFile{Filename: fh.Filename, Reason: err.Error()})
			continue
		}

		result, err := h.service.Ingest(category, fh.Filename, src)
		src.Close()

		switch {
		case errors.Is(err, storage.ErrInvalidName):
			report.Skipped = append(report.Skipped, SkippedFile{Filename: fh.Filename, Reason: "invalid filename"})
		case errors.Is(err, ErrUnsupportedType):
			report.Skipped = append(report.Skipped, SkippedFile{Filename: fh.Filename, Reason: "unsupported extension"})
		case err != nil:
			report.Failed = append(report.Failed, FailedFile{Filename: fh.Filename, Reason: err.Error()})
		default:
			report.Stored = append(report.Stored, *result)
		}
	}

	switch {
	case len(report.Stored) > 0:
		response.Success(c, http.StatusCreated, report)
	case len(report.Failed) > 0:
		response.ErrorWithDetails(c, http.StatusInternalServerError, "INGEST_FAILED", "No file in the batch could be processed", report)
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "NO_SUPPORTED_FILES", "Every file in the batch was rejected", report)
	}
}

// Download handles GET /categories/:category/media/:tier/:filename and streams
// one stored file back with its stored name as the download name.
func (h *Handler) Download(c *gin.Context) {
	tier, err := domain.ParseTier(c.Param("tier"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_TIER", "Tier must be one of: source, largest, medium, thumbnail")
		return
	}

	path, err := h.service.Resolve(c.Param("category"), tier, c.Param("filename"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// Archive handles GET /categories/:category/archive/:tier and returns a ZIP
// of every file currently stored in that tier.
func (h *Handler) Archive(c *gin.Context) {
	tier, err := domain.ParseTier(c.Param("tier"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_TIER", "Tier must be one of: source, largest, medium, thumbnail")
		return
	}

	category := c.Param("category")
	if !h.service.layout.CategoryExists(category) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Category not found")
		return
	}

	name, data, err := h.service.BuildArchive(category, tier)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", data)
}

// DeleteItem handles DELETE /categories/:category/media/:filename. Absence at
// individual tiers is fine; absence everywhere is a 404.
func (h *Handler) DeleteItem(c *gin.Context) {
	result, err := h.service.Delete(c.Param("category"), c.Param("filename"))
	if err != nil {
		handleError(c, err)
		return
	}

	if !result.Found() {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Media item not found")
		return
	}

	if len(result.Failed) > 0 {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "PARTIAL_DELETE", "Some tiers could not be removed", gin.H{
			"removed": result.Removed,
			"failed":  result.Failed,
		})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": result.Removed})
}

// RegisterRoutes registers the media item routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/categories")
	{
		categories.POST("/:category/media", h.Upload)
		categories.GET("/:category/media/:tier/:filename", h.Download)
		categories.GET("/:category/archive/:tier", h.Archive)
		categories.DELETE("/:category/media/:filename", h.DeleteItem)
	}
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
	case errors.Is(err, storage.ErrInvalidName):
		response.Error(c, http.StatusBadRequest, "INVALID_NAME", "Invalid category or file name")
	default:
		response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err.Error())
	}
}
