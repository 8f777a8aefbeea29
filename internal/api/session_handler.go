package api

import (
	"errors"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/service"
	"net/http"
	"time"

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

type CreateSessionRequest struct {
	ClientID    string   `json:"clientId" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	TimeOfDay   string   `json:"timeOfDay"`
	SessionType string   `json:"sessionType" binding:"required"`
	Amount      *float64 `json:"amount"`
	Status      string   `json:"status"`
	Notes       string   `json:"notes"`
}

type UpdateSessionRequest struct {
	ClientID    *string  `json:"clientId,omitempty"`
	Date        *string  `json:"date,omitempty"`
	TimeOfDay   *string  `json:"timeOfDay,omitempty"`
	SessionType *string  `json:"sessionType,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type SessionResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	ClientName  string    `json:"clientName"`
	DogName     string    `json:"dogName,omitempty"`
	DisplayName string    `json:"displayName"`
	Date        string    `json:"date"`
	TimeOfDay   string    `json:"timeOfDay"`
	SessionType string    `json:"sessionType"`
	Amount      *float64  `json:"amount,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Set when the session write succeeded but the owning client's summary
	// could not be recomputed; the summary can be repaired by the client
	// recompute endpoint.
	Warning string `json:"warning,omitempty"`
}

// MapSessionToResponse converts a domain session to its API representation.
func MapSessionToResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		ID:          session.ID.Hex(),
		ClientID:    session.ClientID.Hex(),
		ClientName:  session.ClientName,
		DogName:     session.DogName,
		DisplayName: domain.DisplayName(session.ClientName, session.DogName),
		Date:        session.Date,
		TimeOfDay:   session.TimeOfDay,
		SessionType: string(session.SessionType),
		Amount:      session.Amount,
		Status:      string(session.Status),
		Notes:       session.Notes,
		CreatedAt:   session.CreatedAt,
	}
}

// --- Handlers ---

// CreateSession creates a new session for a client.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), service.CreateSessionInput{
		ClientID:    clientID,
		Date:        req.Date,
		TimeOfDay:   req.TimeOfDay,
		SessionType: domain.SessionType(req.SessionType),
		Amount:      req.Amount,
		Status:      domain.SessionStatus(req.Status),
		Notes:       req.Notes,
	})
	if err != nil && !errors.Is(err, service.ErrSummaryStale) {
		h.mapSessionError(c, err, "Failed to create session.")
		return
	}

	resp := MapSessionToResponse(session)
	if err != nil {
		resp.Warning = err.Error()
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSession returns one session by id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := h.sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.mapSessionError(c, err, "Failed to retrieve session.")
		return
	}

	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// ListSessions returns all sessions, optionally filtered by ?clientId=.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var (
		sessions []domain.Session
		err      error
	)

	if clientIDStr := c.Query("clientId"); clientIDStr != "" {
		clientID, parseErr := primitive.ObjectIDFromHex(clientIDStr)
		if parseErr != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
			return
		}
		sessions, err = h.sessionService.ListSessionsByClient(c.Request.Context(), clientID)
	} else {
		sessions, err = h.sessionService.ListSessions(c.Request.Context())
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve sessions.")
		return
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, MapSessionToResponse(&sessions[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateSession merges the supplied fields into an existing session.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := h.sessionIDParam(c)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.UpdateSessionInput{
		Date:      req.Date,
		TimeOfDay: req.TimeOfDay,
		Amount:    req.Amount,
		Notes:     req.Notes,
	}
	if req.ClientID != nil {
		clientID, err := primitive.ObjectIDFromHex(*req.ClientID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
			return
		}
		input.ClientID = &clientID
	}
	if req.SessionType != nil {
		sessionType := domain.SessionType(*req.SessionType)
		input.SessionType = &sessionType
	}
	if req.Status != nil {
		status := domain.SessionStatus(*req.Status)
		input.Status = &status
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), sessionID, input)
	if err != nil && !errors.Is(err, service.ErrSummaryStale) {
		h.mapSessionError(c, err, "Failed to update session.")
		return
	}

	resp := MapSessionToResponse(session)
	if err != nil {
		resp.Warning = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSession removes a session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := h.sessionIDParam(c)
	if !ok {
		return
	}

	err := h.sessionService.DeleteSession(c.Request.Context(), sessionID)
	if err != nil && !errors.Is(err, service.ErrSummaryStale) {
		h.mapSessionError(c, err, "Failed to delete session.")
		return
	}

	if err != nil {
		c.JSON(http.StatusOK, gin.H{"warning": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceSuggestion returns the standard fee for a (client, session type) pair,
// for form pre-fill. Types without a standard fee return a null amount.
func (h *SessionHandler) PriceSuggestion(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Query("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing clientId query parameter.")
		return
	}
	sessionType := domain.SessionType(c.Query("type"))

	price, err := h.sessionService.PriceSuggestion(c.Request.Context(), clientID, sessionType)
	if err != nil {
		h.mapSessionError(c, err, "Failed to resolve price suggestion.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionType": sessionType, "amount": price})
}

func (h *SessionHandler) sessionIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return primitive.NilObjectID, false
	}
	return sessionID, true
}

// mapSessionError maps service errors to HTTP status codes.
func (h *SessionHandler) mapSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
