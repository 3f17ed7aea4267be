package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

// Day windows travel as epoch milliseconds, matching what the clients store.
type StartSessionRequest struct {
	TrainingPlanID *string                   `json:"trainingPlanId,omitempty"`
	DayOfWeek      string                    `json:"dayOfWeek" binding:"required"`
	DayStart       int64                     `json:"dayStart" binding:"required"`
	DayEnd         int64                     `json:"dayEnd" binding:"required"`
	Exercises      []domain.ExerciseProgress `json:"exercises,omitempty"`
}

type AddExerciseRequest struct {
	DayOfWeek    string               `json:"dayOfWeek" binding:"required"`
	DayStart     int64                `json:"dayStart" binding:"required"`
	DayEnd       int64                `json:"dayEnd" binding:"required"`
	ExerciseName string               `json:"exerciseName" binding:"required"`
	Sets         []domain.TemplateSet `json:"sets"`
}

type SessionProgressRequest struct {
	Exercises           []domain.ExerciseProgress `json:"exercises" binding:"required"`
	TotalTime           float64                   `json:"totalTime"`
	TotalCaloriesBurned float64                   `json:"totalCaloriesBurned"`
}

type CompleteSessionRequest struct {
	TotalTime           float64 `json:"totalTime"`
	TotalCaloriesBurned float64 `json:"totalCaloriesBurned"`
}

type SessionIDResponse struct {
	SessionID string `json:"sessionId"`
}

// --- Handlers ---

// StartSession starts (or finds) the caller's session for the given day window.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	day, err := domain.ParseDayOfWeek(req.DayOfWeek)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	input := service.StartSessionInput{
		UserID:    userID,
		DayOfWeek: day,
		DayStart:  time.UnixMilli(req.DayStart).UTC(),
		DayEnd:    time.UnixMilli(req.DayEnd).UTC(),
		Exercises: req.Exercises,
	}
	if req.TrainingPlanID != nil {
		planID, err := primitive.ObjectIDFromHex(*req.TrainingPlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid training plan ID format.")
			return
		}
		input.TrainingPlanID = &planID
	}

	sessionID, err := h.sessionService.StartSession(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoExercisesForDay):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start session.")
		}
		return
	}

	c.JSON(http.StatusOK, SessionIDResponse{SessionID: sessionID.Hex()})
}

// AddExerciseToToday appends one self-managed exercise to today's session.
func (h *SessionHandler) AddExerciseToToday(c *gin.Context) {
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	day, err := domain.ParseDayOfWeek(req.DayOfWeek)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, err := h.sessionService.AddSelfManagedExerciseToToday(
		c.Request.Context(), userID, day,
		time.UnixMilli(req.DayStart).UTC(), time.UnixMilli(req.DayEnd).UTC(),
		req.ExerciseName, req.Sets,
	)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to add exercise.")
		return
	}

	c.JSON(http.StatusOK, SessionIDResponse{SessionID: sessionID.Hex()})
}

// UpdateProgress overwrites the session's exercises and totals.
func (h *SessionHandler) UpdateProgress(c *gin.Context) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}

	var req SessionProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err = h.sessionService.UpdateSessionProgress(c.Request.Context(), sessionID, req.Exercises, req.TotalTime, req.TotalCaloriesBurned)
	if err != nil {
		h.mapSessionError(c, err, "Failed to update session.")
		return
	}

	c.JSON(http.StatusOK, SessionIDResponse{SessionID: sessionID.Hex()})
}

// Complete moves the session to its terminal completed state.
func (h *SessionHandler) Complete(c *gin.Context) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}

	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err = h.sessionService.CompleteSession(c.Request.Context(), sessionID, req.TotalTime, req.TotalCaloriesBurned)
	if err != nil {
		h.mapSessionError(c, err, "Failed to complete session.")
		return
	}

	c.JSON(http.StatusOK, SessionIDResponse{SessionID: sessionID.Hex()})
}

// Cancel moves the session to its terminal cancelled state.
func (h *SessionHandler) Cancel(c *gin.Context) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}

	err = h.sessionService.CancelSession(c.Request.Context(), sessionID)
	if err != nil {
		h.mapSessionError(c, err, "Failed to cancel session.")
		return
	}

	c.JSON(http.StatusOK, SessionIDResponse{SessionID: sessionID.Hex()})
}

// GetOngoing returns the caller's current ongoing session, or JSON null.
func (h *SessionHandler) GetOngoing(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	session, err := h.sessionService.GetOngoingSession(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch ongoing session.")
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetLatestForDay returns the most recent session in the supplied day window.
func (h *SessionHandler) GetLatestForDay(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	dayStart, err := strconv.ParseInt(c.Query("dayStart"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "dayStart query parameter is required (epoch ms).")
		return
	}
	dayEnd, err := strconv.ParseInt(c.Query("dayEnd"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "dayEnd query parameter is required (epoch ms).")
		return
	}

	// dayOfWeek is optional; when omitted the service derives it from dayStart.
	var day domain.DayOfWeek
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, err = domain.ParseDayOfWeek(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	session, err := h.sessionService.GetLatestSessionForDay(
		c.Request.Context(), userID,
		time.UnixMilli(dayStart).UTC(), time.UnixMilli(dayEnd).UTC(), day,
	)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch session.")
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetHistory returns the caller's sessions, most recent first.
func (h *SessionHandler) GetHistory(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit parameter.")
			return
		}
	}

	sessions, err := h.sessionService.GetSessionHistory(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch session history.")
		return
	}

	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// GetStats returns the caller's completed-session statistics.
func (h *SessionHandler) GetStats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	stats, err := h.sessionService.GetSessionStats(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch session stats.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *SessionHandler) mapSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionFinished):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
