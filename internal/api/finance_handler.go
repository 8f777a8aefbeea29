package api

import (
	"errors"
	"mcjmccartney/practice-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	financeService service.FinanceService
}

func NewFinanceHandler(financeService service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// GetSummary returns the revenue summary for ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		abortWithError(c, http.StatusBadRequest, "Both from and to query parameters are required.")
		return
	}

	summary, err := h.financeService.Summary(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute finance summary.")
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}
