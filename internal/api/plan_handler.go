package api

import (
	"errors"
	"net/http"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"
	"gymtrack/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Days          []domain.DayPlan `json:"days" binding:"required"`
	DurationWeeks int              `json:"durationWeeks"`
}

type UpdatePlanRequest struct {
	Name          *string           `json:"name,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Days          *[]domain.DayPlan `json:"days,omitempty"`
	DurationWeeks *int              `json:"durationWeeks,omitempty"`
}

type AssignPlanRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type PlanIDResponse struct {
	PlanID string `json:"planId"`
}

// --- Handlers ---

// Create registers a new plan template owned by the caller.
func (h *PlanHandler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	creatorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	planID, err := h.planService.CreatePlan(c.Request.Context(), service.CreatePlanInput{
		Name:          req.Name,
		Description:   req.Description,
		Days:          req.Days,
		DurationWeeks: req.DurationWeeks,
		CreatedBy:     creatorID,
	})
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, PlanIDResponse{PlanID: planID.Hex()})
}

func (h *PlanHandler) Get(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch plan.")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// List returns all plans, or only the caller's own with ?mine=true.
func (h *PlanHandler) List(c *gin.Context) {
	var plans []domain.TrainingPlan
	var err error

	if c.Query("mine") == "true" {
		creatorID, idErr := getUserIDFromContext(c)
		if idErr != nil {
			abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
			return
		}
		plans, err = h.planService.ListPlansByCreator(c.Request.Context(), creatorID)
	} else {
		plans, err = h.planService.ListAllPlans(c.Request.Context())
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch plans.")
		return
	}

	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) Update(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err = h.planService.UpdatePlan(c.Request.Context(), planID, repository.TrainingPlanUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Days:          req.Days,
		DurationWeeks: req.DurationWeeks,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, PlanIDResponse{PlanID: planID.Hex()})
}

// Assign gives the user an independent copy of the plan template.
func (h *PlanHandler) Assign(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	copyID, err := h.planService.AssignPlan(c.Request.Context(), planID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign plan.")
		}
		return
	}

	c.JSON(http.StatusOK, PlanIDResponse{PlanID: copyID.Hex()})
}

// Unassign detaches the user's assigned plan.
func (h *PlanHandler) Unassign(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	err = h.planService.UnassignPlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to unassign plan.")
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes the plan, detaching every user still on it first.
func (h *PlanHandler) Delete(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	err = h.planService.DeletePlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete plan.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUsers returns the users currently assigned to the plan.
func (h *PlanHandler) ListUsers(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	users, err := h.planService.ListUsersByPlan(c.Request.Context(), planID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch users.")
		return
	}

	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, users)
}

// ListExerciseNames returns the master exercise name list.
func (h *PlanHandler) ListExerciseNames(c *gin.Context) {
	names, err := h.planService.ListExerciseNames(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch exercise names.")
		return
	}

	if names == nil {
		names = []domain.ExerciseName{}
	}
	c.JSON(http.StatusOK, names)
}
