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

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type UpdateClientRequest struct {
	OwnerFirstName *string `json:"ownerFirstName,omitempty"`
	OwnerLastName  *string `json:"ownerLastName,omitempty"`
	Email          *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone          *string `json:"phone,omitempty"`
	Postcode       *string `json:"postcode,omitempty"`
	DogName        *string `json:"dogName,omitempty"`
	DogSex         *string `json:"dogSex,omitempty"`
	DogBreed       *string `json:"dogBreed,omitempty"`
	IsMember       *bool   `json:"isMember,omitempty"`
}

type BriefUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type BriefUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ClientResponse struct {
	ID             string    `json:"id"`
	OwnerFirstName string    `json:"ownerFirstName"`
	OwnerLastName  string    `json:"ownerLastName"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Postcode       string    `json:"postcode,omitempty"`
	DogName        string    `json:"dogName,omitempty"`
	DogSex         string    `json:"dogSex,omitempty"`
	DogBreed       string    `json:"dogBreed,omitempty"`
	IsMember       bool      `json:"isMember"`
	HasBrief       bool      `json:"hasBrief"`
	SubmittedAt    time.Time `json:"submittedAt,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastSession    string    `json:"lastSession"`
	NextSession    string    `json:"nextSession"`
}

// MapClientToResponse converts a domain client to its API representation.
func MapClientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:             client.ID.Hex(),
		OwnerFirstName: client.OwnerFirstName,
		OwnerLastName:  client.OwnerLastName,
		DisplayName:    client.DisplayName(),
		Email:          client.Email,
		Phone:          client.Phone,
		Postcode:       client.Postcode,
		DogName:        client.DogName,
		DogSex:         client.DogSex,
		DogBreed:       client.DogBreed,
		IsMember:       client.IsMember,
		HasBrief:       client.BehaviourBriefKey != "",
		SubmittedAt:    client.SubmittedAt,
		CreatedAt:      client.CreatedAt,
		LastSession:    client.LastSession,
		NextSession:    client.NextSession,
	}
}

// --- Handlers ---

// ListClients returns all clients, newest first.
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, MapClientToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetClient returns one client by id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// UpdateClient merges contact/membership edits into the client record.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, service.UpdateClientInput{
		OwnerFirstName: req.OwnerFirstName,
		OwnerLastName:  req.OwnerLastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Postcode:       req.Postcode,
		DogName:        req.DogName,
		DogSex:         req.DogSex,
		DogBreed:       req.DogBreed,
		IsMember:       req.IsMember,
	})
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// RecomputeSummary repairs a client's derived session summary. Safe to call
// at any time; the computation is idempotent.
func (h *ClientHandler) RecomputeSummary(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	if err := h.clientService.RecomputeSummary(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to recompute client summary.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestBriefUpload issues a presigned PUT URL for the client's behavioural
// brief document.
func (h *ClientHandler) RequestBriefUpload(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	var req BriefUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	uploadURL, objectKey, err := h.clientService.RequestBriefUpload(c.Request.Context(), clientID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL.")
		}
		return
	}

	c.JSON(http.StatusOK, BriefUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// GetBriefURL issues a presigned GET URL for the client's stored brief.
func (h *ClientHandler) GetBriefURL(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	downloadURL, err := h.clientService.GetBriefDownloadURL(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) || errors.Is(err, service.ErrBriefNotUploaded) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create download URL.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}

func (h *ClientHandler) clientIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return primitive.NilObjectID, false
	}
	return clientID, true
}
