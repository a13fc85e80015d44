package handler

import (
	"net/http"

	"github.com/ouola/Phantom-backend/internal/dto"
	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/schedule"
	"github.com/ouola/Phantom-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PharmaciesHandler struct {
	schedule service.ScheduleService
	catalog  service.CatalogService
	reports  service.ReportService
}

func NewPharmaciesHandler(schedule service.ScheduleService, catalog service.CatalogService, reports service.ReportService) *PharmaciesHandler {
	return &PharmaciesHandler{schedule: schedule, catalog: catalog, reports: reports}
}

// parseWeekdayClock parses the weekday/time pair shared by the availability
// endpoints, writing a 400 on failure.
func parseWeekdayClock(c *gin.Context, weekday, clock string) (schedule.Weekday, schedule.Clock, bool) {
	d, err := schedule.ParseWeekday(weekday)
	if err != nil {
		badRequest(c, "weekday must be one of Mon, Tue, Wed, Thu, Fri, Sat, Sun")
		return 0, 0, false
	}
	t, err := schedule.ParseClock(clock)
	if err != nil {
		badRequest(c, "invalid time format, use HH:MM")
		return 0, 0, false
	}
	return d, t, true
}

// OpeningHours godoc
// @Summary Lists pharmacies open at a weekday and time
// @Tags pharmacies
// @Produce json
// @Param weekday query string true "Mon..Sun"
// @Param time query string true "HH:MM"
// @Success 200 {array} dto.PharmacyResponse
// @Failure 400 {object} apierror.APIError
// @Router /pharmacies/opening-hours [get]
func (h *PharmaciesHandler) OpeningHours(c *gin.Context) {
	var q dto.OpeningHoursQuery
	if !bindQuery(c, &q) {
		return
	}
	d, t, ok := parseWeekdayClock(c, q.Weekday, q.Time)
	if !ok {
		return
	}
	resp, err := h.schedule.OpenPharmaciesAt(c.Request.Context(), d, t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IsOpen godoc
// @Summary Reports whether one pharmacy is open at a weekday and time
// @Tags pharmacies
// @Produce json
// @Param pharmacy_name query string true "Pharmacy name"
// @Param weekday query string true "Mon..Sun"
// @Param time query string true "HH:MM"
// @Success 200 {object} dto.OpenStatusResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /pharmacies/open [get]
func (h *PharmaciesHandler) IsOpen(c *gin.Context) {
	var q dto.PharmacyOpenQuery
	if !bindQuery(c, &q) {
		return
	}
	d, t, ok := parseWeekdayClock(c, q.Weekday, q.Time)
	if !ok {
		return
	}
	open, err := h.schedule.IsOpenAt(c.Request.Context(), q.PharmacyName, d, t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OpenStatusResponse{Name: q.PharmacyName, Weekday: d, Time: t, Open: open})
}

// Schedule godoc
// @Summary Returns the stored schedule of a pharmacy
// @Tags pharmacies
// @Produce json
// @Param pharmacy_name query string true "Pharmacy name"
// @Success 200 {object} dto.PharmacyScheduleResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /pharmacies/schedule [get]
func (h *PharmaciesHandler) Schedule(c *gin.Context) {
	var q dto.PharmacyNameQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.schedule.PharmacySchedule(c.Request.Context(), q.PharmacyName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Masks godoc
// @Summary Lists the masks sold by a pharmacy
// @Tags pharmacies
// @Produce json
// @Param pharmacy_name query string true "Pharmacy name"
// @Param sort_by query string false "name | price" default(name)
// @Success 200 {array} dto.MaskResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /pharmacies/masks [get]
func (h *PharmaciesHandler) Masks(c *gin.Context) {
	var q dto.MaskListQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.catalog.ListMasks(c.Request.Context(), q.PharmacyName, repository.MaskSort(q.SortBy))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MaskCount godoc
// @Summary Filters pharmacies by the number of masks within a price range
// @Tags pharmacies
// @Produce json
// @Param comparison query string true "more | less"
// @Param count query int true "Threshold, inclusive"
// @Param min_price query number true "Lower price bound, inclusive"
// @Param max_price query number true "Upper price bound, inclusive"
// @Success 200 {array} dto.PharmacyMaskCountResponse
// @Failure 400 {object} apierror.APIError
// @Router /pharmacies/mask-count [get]
func (h *PharmaciesHandler) MaskCount(c *gin.Context) {
	var q dto.MaskCountQuery
	if !bindQuery(c, &q) {
		return
	}
	minPrice, err := decimal.NewFromString(q.MinPrice)
	if err != nil {
		badRequest(c, "min_price must be a number")
		return
	}
	maxPrice, err := decimal.NewFromString(q.MaxPrice)
	if err != nil {
		badRequest(c, "max_price must be a number")
		return
	}
	resp, err := h.reports.PharmaciesByMaskCount(c.Request.Context(), q.Comparison, *q.Count, minPrice, maxPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Deletes a pharmacy with its masks and opening hours
// @Tags pharmacies
// @Param pharmacy_name query string true "Pharmacy name"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /pharmacies [delete]
func (h *PharmaciesHandler) Delete(c *gin.Context) {
	var q dto.PharmacyNameQuery
	if !bindQuery(c, &q) {
		return
	}
	if err := h.catalog.DeletePharmacy(c.Request.Context(), q.PharmacyName); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search godoc
// @Summary Searches pharmacies and masks by name
// @Description Exact matches rank first, then prefix matches, then substring matches.
// @Tags search
// @Produce json
// @Param search_term query string true "Term"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} apierror.APIError
// @Router /search [get]
func (h *PharmaciesHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.catalog.Search(c.Request.Context(), q.SearchTerm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
