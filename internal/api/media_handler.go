package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"
	"gymtrack/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// --- DTOs ---

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type CreateDietLogRequest struct {
	MealType    string  `json:"mealType" binding:"required"`
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	ImageKey    *string `json:"imageId,omitempty"`
}

type UpdateDietLogRequest struct {
	MealType    *string  `json:"mealType,omitempty"`
	Description *string  `json:"description,omitempty"`
	Calories    *float64 `json:"calories,omitempty"`
	ImageKey    *string  `json:"imageId,omitempty"`
	ClearImage  bool     `json:"clearImage,omitempty"`
}

type CreateWeightLogRequest struct {
	Weight float64 `json:"weight" binding:"required"`
}

type CreateGalleryItemRequest struct {
	Title      string  `json:"title"`
	ImageURL   string  `json:"imageUrl"`
	StorageKey *string `json:"storageId,omitempty"`
}

type CreateSuccessStoryRequest struct {
	ClientName      string  `json:"clientName" binding:"required"`
	Story           string  `json:"story" binding:"required"`
	ImageURL        string  `json:"imageUrl"`
	ImageStorageKey *string `json:"imageStorageId,omitempty"`
}

type UpdateSuccessStoryRequest struct {
	ClientName      *string `json:"clientName,omitempty"`
	Story           *string `json:"story,omitempty"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	ImageStorageKey *string `json:"imageStorageId,omitempty"`
}

type CreateTransformationImageRequest struct {
	Caption         string  `json:"caption"`
	ImageStorageKey *string `json:"imageStorageId,omitempty"`
}

type IDResponse struct {
	ID string `json:"id"`
}

// --- Uploads ---

// RequestUploadURL hands out a presigned PUT URL for a fresh object key.
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.mediaService.RequestImageUploadURL(c.Request.Context(), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// --- Diet Logs ---

func (h *MediaHandler) CreateDietLog(c *gin.Context) {
	var req CreateDietLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	mealType, err := domain.ParseMealType(req.MealType)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.mediaService.CreateDietLog(c.Request.Context(), &domain.DietLog{
		UserID:      userID,
		MealType:    mealType,
		Description: req.Description,
		Calories:    req.Calories,
		ImageKey:    req.ImageKey,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create diet log.")
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id.Hex()})
}

// ListDietLogs returns the caller's diet logs. With both rangeStart and
// rangeEnd (epoch ms), only entries inside the inclusive range come back.
func (h *MediaHandler) ListDietLogs(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	var logs []domain.DietLog
	rawStart, rawEnd := c.Query("rangeStart"), c.Query("rangeEnd")
	if rawStart != "" || rawEnd != "" {
		start, errStart := strconv.ParseInt(rawStart, 10, 64)
		end, errEnd := strconv.ParseInt(rawEnd, 10, 64)
		if errStart != nil || errEnd != nil {
			abortWithError(c, http.StatusBadRequest, "rangeStart and rangeEnd must both be epoch ms.")
			return
		}
		logs, err = h.mediaService.GetDietLogsInRange(c.Request.Context(), userID,
			time.UnixMilli(start).UTC(), time.UnixMilli(end).UTC())
	} else {
		logs, err = h.mediaService.GetDietLogs(c.Request.Context(), userID)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch diet logs.")
		return
	}

	if logs == nil {
		logs = []domain.DietLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *MediaHandler) UpdateDietLog(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid diet log ID format.")
		return
	}

	var req UpdateDietLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	update := repository.DietLogUpdate{
		Description: req.Description,
		Calories:    req.Calories,
		ImageKey:    req.ImageKey,
		ClearImage:  req.ClearImage,
	}
	if req.MealType != nil {
		mealType, err := domain.ParseMealType(*req.MealType)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		update.MealType = &mealType
	}

	if err := h.mediaService.UpdateDietLog(c.Request.Context(), id, update); err != nil {
		h.mapMediaError(c, err, "Failed to update diet log.")
		return
	}

	c.JSON(http.StatusOK, IDResponse{ID: id.Hex()})
}

func (h *MediaHandler) DeleteDietLog(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid diet log ID format.")
		return
	}

	if err := h.mediaService.DeleteDietLog(c.Request.Context(), id); err != nil {
		h.mapMediaError(c, err, "Failed to delete diet log.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Weight Logs ---

func (h *MediaHandler) CreateWeightLog(c *gin.Context) {
	var req CreateWeightLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	id, err := h.mediaService.AddWeightLog(c.Request.Context(), &domain.WeightLog{
		UserID: userID,
		Weight: req.Weight,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create weight log.")
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id.Hex()})
}

func (h *MediaHandler) ListWeightLogs(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	logs, err := h.mediaService.GetWeightLogs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch weight logs.")
		return
	}

	if logs == nil {
		logs = []domain.WeightLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *MediaHandler) DeleteWeightLog(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight log ID format.")
		return
	}

	if err := h.mediaService.DeleteWeightLog(c.Request.Context(), id); err != nil {
		h.mapMediaError(c, err, "Failed to delete weight log.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Gallery ---

func (h *MediaHandler) CreateGalleryItem(c *gin.Context) {
	var req CreateGalleryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if req.ImageURL == "" && req.StorageKey == nil {
		abortWithError(c, http.StatusBadRequest, "Either imageUrl or storageId is required.")
		return
	}

	id, err := h.mediaService.CreateGalleryItem(c.Request.Context(), &domain.GalleryItem{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		StorageKey: req.StorageKey,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create gallery item.")
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id.Hex()})
}

func (h *MediaHandler) ListGallery(c *gin.Context) {
	items, err := h.mediaService.ListGallery(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch gallery.")
		return
	}

	if items == nil {
		items = []service.GalleryItemDetails{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *MediaHandler) DeleteGalleryItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid gallery item ID format.")
		return
	}

	if err := h.mediaService.DeleteGalleryItem(c.Request.Context(), id); err != nil {
		h.mapMediaError(c, err, "Failed to delete gallery item.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Success Stories ---

func (h *MediaHandler) CreateSuccessStory(c *gin.Context) {
	var req CreateSuccessStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	id, err := h.mediaService.CreateSuccessStory(c.Request.Context(), &domain.SuccessStory{
		ClientName:      req.ClientName,
		Story:           req.Story,
		ImageURL:        req.ImageURL,
		ImageStorageKey: req.ImageStorageKey,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create success story.")
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id.Hex()})
}

func (h *MediaHandler) ListSuccessStories(c *gin.Context) {
	stories, err := h.mediaService.ListSuccessStories(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch success stories.")
		return
	}

	if stories == nil {
		stories = []service.SuccessStoryDetails{}
	}
	c.JSON(http.StatusOK, stories)
}

func (h *MediaHandler) UpdateSuccessStory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid success story ID format.")
		return
	}

	var req UpdateSuccessStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err = h.mediaService.UpdateSuccessStory(c.Request.Context(), id, repository.SuccessStoryUpdate{
		ClientName:      req.ClientName,
		Story:           req.Story,
		ImageURL:        req.ImageURL,
		ImageStorageKey: req.ImageStorageKey,
	})
	if err != nil {
		h.mapMediaError(c, err, "Failed to update success story.")
		return
	}

	c.JSON(http.StatusOK, IDResponse{ID: id.Hex()})
}

func (h *MediaHandler) DeleteSuccessStory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid success story ID format.")
		return
	}

	if err := h.mediaService.DeleteSuccessStory(c.Request.Context(), id); err != nil {
		h.mapMediaError(c, err, "Failed to delete success story.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Transformation Images ---

func (h *MediaHandler) CreateTransformationImage(c *gin.Context) {
	var req CreateTransformationImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if req.ImageStorageKey == nil {
		abortWithError(c, http.StatusBadRequest, "imageStorageId is required.")
		return
	}

	id, err := h.mediaService.CreateTransformationImage(c.Request.Context(), &domain.TransformationImage{
		Caption:         req.Caption,
		ImageStorageKey: req.ImageStorageKey,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create transformation image.")
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id.Hex()})
}

func (h *MediaHandler) ListTransformationImages(c *gin.Context) {
	images, err := h.mediaService.ListTransformationImages(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch transformation images.")
		return
	}

	if images == nil {
		images = []service.TransformationImageDetails{}
	}
	c.JSON(http.StatusOK, images)
}

func (h *MediaHandler) DeleteTransformationImage(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid transformation image ID format.")
		return
	}

	if err := h.mediaService.DeleteTransformationImage(c.Request.Context(), id); err != nil {
		h.mapMediaError(c, err, "Failed to delete transformation image.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MediaHandler) mapMediaError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrRecordNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, fallback)
}
