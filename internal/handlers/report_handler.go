package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerly/internal/services"
)

// ReportHandler serves aggregated views of a user's transactions.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CategoryPie returns per-category expense totals for a month
// @Summary     Expense totals per category
// @Description Sum of the caller's expenses per category for one calendar month.
// @Description Categories without expenses are omitted.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string true "Month as YYYY-MM"
// @Success     200 {array}  services.CategoryTotal "Totals"
// @Failure     400 {object} ErrorResponse "Missing or invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/category-pie [get]
func (h *ReportHandler) CategoryPie(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.reportService.CategoryTotals(userID, c.Query("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// MonthlySummary returns income, expense and balance for a month
// @Summary     Monthly summary
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string true "Month as YYYY-MM"
// @Success     200 {object} services.MonthlySummary "Summary"
// @Failure     400 {object} ErrorResponse "Missing or invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.MonthlySummary(userID, c.Query("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
