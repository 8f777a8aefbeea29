package api

import (
	"mcjmccartney/practice-app/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type IntakeHandler struct {
	clientService service.ClientService
}

func NewIntakeHandler(clientService service.ClientService) *IntakeHandler {
	return &IntakeHandler{clientService: clientService}
}

// IntakeRequest mirrors the behavioural questionnaire the public form posts.
type IntakeRequest struct {
	OwnerFirstName string     `json:"ownerFirstName" binding:"required"`
	OwnerLastName  string     `json:"ownerLastName"`
	Email          string     `json:"email" binding:"required,email"`
	Phone          string     `json:"phone"`
	Postcode       string     `json:"postcode"`
	DogName        string     `json:"dogName"`
	DogSex         string     `json:"dogSex"`
	DogBreed       string     `json:"dogBreed"`
	IsMember       bool       `json:"isMember"`
	SubmittedAt    *time.Time `json:"submittedAt"`
}

// SubmitIntake creates a new client from an intake form submission.
func (h *IntakeHandler) SubmitIntake(c *gin.Context) {
	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.IntakeInput{
		OwnerFirstName: req.OwnerFirstName,
		OwnerLastName:  req.OwnerLastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Postcode:       req.Postcode,
		DogName:        req.DogName,
		DogSex:         req.DogSex,
		DogBreed:       req.DogBreed,
		IsMember:       req.IsMember,
	}
	if req.SubmittedAt != nil {
		input.SubmittedAt = *req.SubmittedAt
	}

	client, err := h.clientService.CreateFromIntake(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record intake submission.")
		return
	}

	c.JSON(http.StatusCreated, MapClientToResponse(client))
}
