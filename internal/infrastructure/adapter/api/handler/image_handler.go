package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	domainerr "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/usecase/admission"
	imageusecase "github.com/ama3it/image-workers-backend/internal/domain/usecase/image"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/dto"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/middleware"
)

// ImageHandler handles image upload and catalog HTTP requests
type ImageHandler struct {
	admission      *admission.Service
	images         *imageusecase.Service
	maxUploadBytes int64
	logger         coreport.Logger
}

// NewImageHandler creates a new image handler instance
func NewImageHandler(
	admissionService *admission.Service,
	imageService *imageusecase.Service,
	maxUploadBytes int64,
	logger coreport.Logger,
) *ImageHandler {
	return &ImageHandler{
		admission:      admissionService,
		images:         imageService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Submit handles the POST /process/image endpoint. The request is multipart:
// the file plus label, image_type, note, job_type and priority fields.
func (h *ImageHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Missing file upload",
		})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Uploaded file is too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, domainerr.ErrInternalServer)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, domainerr.ErrInternalServer)
		return
	}

	label := c.PostForm("label")
	if label == "" {
		label = fileHeader.Filename
	}
	priority := c.DefaultPostForm("priority", string(entity.PriorityLow))

	result, err := h.admission.Submit(c.Request.Context(), admission.SubmitRequest{
		UserID:      userID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		Label:       label,
		ImageType:   c.PostForm("image_type"),
		Note:        c.PostForm("note"),
		JobType:     entity.JobType(c.PostForm("job_type")),
		Priority:    entity.Priority(priority),
	})
	if err != nil {
		if domainerr.IsEnqueueAfterDebitError(err) {
			h.logger.Error("Admission failed after debit", map[string]any{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.SubmitResponse{
		ImageID:  result.Image.ID.String(),
		JobID:    result.Job.ID.String(),
		JobType:  string(result.Job.Type),
		Priority: string(result.Job.Priority),
		Status:   string(result.Job.Status),
	})
}

// List handles the GET /images endpoint
func (h *ImageHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	images, err := h.images.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Error listing images", map[string]any{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	response := dto.ImageListResponse{
		Images: make([]dto.ImageResponse, 0, len(images)),
	}
	for _, img := range images {
		response.Images = append(response.Images, imageToResponse(img))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles the GET /images/:imageId endpoint
func (h *ImageHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Invalid image ID format",
		})
		return
	}

	detail, err := h.images.Get(c.Request.Context(), userID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.ImageDetailResponse{
		Image:     imageToResponse(detail.Image),
		Jobs:      make([]dto.JobResponse, 0, len(detail.Jobs)),
		SignedURL: detail.SignedURL,
	}
	for _, job := range detail.Jobs {
		response.Jobs = append(response.Jobs, dto.JobResponse{
			ID:          job.ID.String(),
			JobType:     string(job.Type),
			Priority:    string(job.Priority),
			Status:      string(job.Status),
			StoragePath: job.StoragePath,
			Attempts:    job.Attempts,
			CreatedAt:   job.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles the DELETE /images/:imageId endpoint. Deletion is soft by
// default; ?permanent=true removes the blobs and rows.
func (h *ImageHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Invalid image ID format",
		})
		return
	}

	permanent := c.DefaultQuery("permanent", "false") == "true"

	if err := h.images.Delete(c.Request.Context(), userID, imageID, permanent); err != nil {
		h.logger.Error("Error deleting image", map[string]any{
			"user_id":   userID.String(),
			"image_id":  imageID.String(),
			"permanent": permanent,
			"error":     err.Error(),
		})
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func imageToResponse(img *entity.Image) dto.ImageResponse {
	return dto.ImageResponse{
		ID:        img.ID.String(),
		Label:     img.Label,
		ImageType: img.ImageType,
		Note:      img.Note,
		CreatedAt: img.CreatedAt,
	}
}
