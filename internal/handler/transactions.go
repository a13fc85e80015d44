package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ouola/Phantom-backend/internal/dto"
	"github.com/ouola/Phantom-backend/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TransactionsHandler struct {
	purchases service.PurchaseService
	reports   service.ReportService
}

func NewTransactionsHandler(purchases service.PurchaseService, reports service.ReportService) *TransactionsHandler {
	return &TransactionsHandler{purchases: purchases, reports: reports}
}

// Purchase godoc
// @Summary Buys masks from a pharmacy
// @Description Debits the user, credits the pharmacy and records the purchase atomically.
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.PurchaseRequest true "Purchase"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 500 {object} apierror.APIError
// @Router /purchase-mask [post]
func (h *TransactionsHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.purchases.Purchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// TopSpenders godoc
// @Summary Ranks users by amount spent in a date range
// @Tags transactions
// @Produce json
// @Param top_x query int true "Number of users"
// @Param start_date query string true "YYYY-MM-DD, inclusive"
// @Param end_date query string true "YYYY-MM-DD, inclusive"
// @Success 200 {array} dto.TopSpenderResponse
// @Failure 400 {object} apierror.APIError
// @Router /users/top-transactions [get]
func (h *TransactionsHandler) TopSpenders(c *gin.Context) {
	var q dto.TopSpendersQuery
	if !bindQuery(c, &q) {
		return
	}
	r, err := service.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.reports.TopSpenders(c.Request.Context(), r, *q.TopX)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Totals godoc
// @Summary Counts purchases and sums amounts in a date range
// @Tags transactions
// @Produce json
// @Param start_date query string true "YYYY-MM-DD, inclusive"
// @Param end_date query string true "YYYY-MM-DD, inclusive"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} apierror.APIError
// @Router /transactions/total [get]
func (h *TransactionsHandler) Totals(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}
	resp, err := h.reports.Totals(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary Downloads the purchases of a date range as XLSX
// @Tags transactions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "YYYY-MM-DD, inclusive"
// @Param end_date query string true "YYYY-MM-DD, inclusive"
// @Success 200 {file} file
// @Failure 400 {object} apierror.APIError
// @Router /transactions/export [get]
func (h *TransactionsHandler) Export(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}
	b, err := h.reports.ExportTransactions(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("transactions_%s_%s.xlsx", r.Start.Format(service.DateLayout), r.End.Format(service.DateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, b)
}

// Receipt godoc
// @Summary Downloads the PDF receipt of a purchase
// @Tags transactions
// @Produce application/pdf
// @Param id path int true "Purchase ID"
// @Success 200 {file} file
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /purchases/{id}/receipt [get]
func (h *TransactionsHandler) Receipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid purchase id")
		return
	}
	b, err := h.purchases.Receipt(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", b)
}

func (h *TransactionsHandler) dateRange(c *gin.Context) (service.DateRange, bool) {
	var q dto.DateRangeQuery
	if !bindQuery(c, &q) {
		return service.DateRange{}, false
	}
	r, err := service.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		respondError(c, err)
		return service.DateRange{}, false
	}
	return r, true
}
