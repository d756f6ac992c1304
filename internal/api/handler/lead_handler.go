package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-api/internal/api/metrics"
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// Create stores a lead owned by the caller.
//
// @Summary      Create lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead"
// @Success      201   {object}  leadEnvelope
// @Failure      400   {object}  errorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.service.CreateLead(c.Request().Context(), user, ports.CreateLeadInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     domain.LeadSource(req.Source),
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	metrics.LeadsCreatedTotal.WithLabelValues(string(view.Lead.Source)).Inc()

	return c.JSON(http.StatusCreated, leadEnvelope{Message: "Lead created successfully", Lead: toLeadResponse(*view)})
}

// List returns a filtered page of leads.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Status filter"
// @Param        source      query     string  false  "Source filter"
// @Param        assignedTo  query     string  false  "Assignee id"
// @Param        search      query     string  false  "Name or email contains"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  listLeadsResponse
// @Failure      400         {object}  errorResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	res, err := h.service.ListLeads(c.Request().Context(), ports.ListLeadsFilter{
		Status:     c.QueryParam("status"),
		Source:     c.QueryParam("source"),
		AssignedTo: c.QueryParam("assignedTo"),
		Search:     c.QueryParam("search"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	leads := make([]leadResponse, 0, len(res.Items))
	for _, v := range res.Items {
		leads = append(leads, toLeadResponse(v))
	}
	return c.JSON(http.StatusOK, listLeadsResponse{
		Leads: leads,
		Pagination: paginationResponse{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, name+" must be a positive integer")
	}
	return n, nil
}

// Get returns one lead.
//
// @Summary      Get lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  leadEnvelope
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	view, err := h.service.GetLead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leadEnvelope{Lead: toLeadResponse(*view)})
}

// Update patches a lead. The creator cannot be changed.
//
// @Summary      Update lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead ID"
// @Param        body  body      updateLeadRequest  true  "Fields to change"
// @Success      200   {object}  leadEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	var req updateLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.service.UpdateLead(c.Request().Context(), c.Param("id"), toLeadPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leadEnvelope{Message: "Lead updated successfully", Lead: toLeadResponse(*view)})
}

// Delete removes a lead.
//
// @Summary      Delete lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteLead(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Lead deleted successfully"})
}
