package controller

import (
	"bytes"
	"strconv"
	"time"

	"lead-insights-service/internal/model"
	"lead-insights-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// LeadController exposes HTTP handlers for ingestion, listings,
// dashboards and client management.
type LeadController interface {
	CreateLead(c *fiber.Ctx) error
	GetLeads(c *fiber.Ctx) error
	GetDashboard(c *fiber.Ctx) error
	ExportLeads(c *fiber.Ctx) error
	GetClients(c *fiber.Ctx) error
	CreateClientLink(c *fiber.Ctx) error
}

type leadController struct {
	leadService service.LeadService
}

// NewLeadController builds a LeadController.
func NewLeadController(svc service.LeadService) LeadController {
	return &leadController{leadService: svc}
}

// CreateLead accepts single lead payloads.
func (h *leadController) CreateLead(c *fiber.Ctx) error {
	var req model.LeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	lead, err := h.leadService.BuildLead(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.leadService.ProcessLead(c.Context(), lead)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to accept lead")
	}

	return c.Status(fiber.StatusAccepted).JSON(result)
}

// GetLeads returns the filtered lead listing.
func (h *leadController) GetLeads(c *fiber.Ctx) error {
	filter, err := buildLeadFilter(c)
	if err != nil {
		return err
	}

	leads, svcErr := h.leadService.ListLeads(c.Context(), filter)
	if svcErr != nil {
		if _, ok := svcErr.(*service.ValidationError); ok {
			return fiber.NewError(fiber.StatusBadRequest, svcErr.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch leads")
	}

	if leads == nil {
		leads = []model.Lead{}
	}
	return c.JSON(fiber.Map{"total": len(leads), "leads": leads})
}

// GetDashboard returns the statistics snapshot. Store failures degrade
// to an empty snapshot with a notice rather than an error status.
func (h *leadController) GetDashboard(c *fiber.Ctx) error {
	filter, err := buildLeadFilter(c)
	if err != nil {
		return err
	}

	resp, svcErr := h.leadService.GetDashboard(c.Context(), filter)
	if svcErr != nil {
		if _, ok := svcErr.(*service.ValidationError); ok {
			return fiber.NewError(fiber.StatusBadRequest, svcErr.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute dashboard")
	}

	return c.JSON(resp)
}

// ExportLeads streams the filtered leads as a CSV download.
func (h *leadController) ExportLeads(c *fiber.Ctx) error {
	filter, err := buildLeadFilter(c)
	if err != nil {
		return err
	}

	// Buffer before touching headers so error responses stay plain
	// instead of carrying CSV download headers.
	var buf bytes.Buffer
	if svcErr := h.leadService.ExportLeads(c.Context(), filter, &buf); svcErr != nil {
		if _, ok := svcErr.(*service.ValidationError); ok {
			return fiber.NewError(fiber.StatusBadRequest, svcErr.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to export leads")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="leads_export_`+time.Now().UTC().Format("2006-01-02")+`.csv"`)
	return c.Send(buf.Bytes())
}

// GetClients lists all clients.
func (h *leadController) GetClients(c *fiber.Ctx) error {
	clients, err := h.leadService.ListClients(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch clients")
	}
	if clients == nil {
		clients = []model.Client{}
	}
	return c.JSON(fiber.Map{"total": len(clients), "clients": clients})
}

// CreateClientLink issues a shareable dashboard link for one client.
func (h *leadController) CreateClientLink(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	link, svcErr := h.leadService.GenerateClientLink(c.Context(), id)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// buildLeadFilter parses the query string into a LeadFilter. The client
// id is presence-checked on the raw parameter so that client_id=0 stays
// a real filter and is never folded into "all clients".
func buildLeadFilter(c *fiber.Ctx) (model.LeadFilter, error) {
	var filter model.LeadFilter

	if raw := utils.Trim(c.Query("client_id"), ' '); raw != "" {
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return model.LeadFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid client_id")
		}
		filter.ClientID = &id
	}

	var err error
	if filter.From, err = parseDateParam(c, "from"); err != nil {
		return model.LeadFilter{}, err
	}
	if filter.To, err = parseDateParam(c, "to"); err != nil {
		return model.LeadFilter{}, err
	}

	filter.Source = optionalParam(c, "source")
	filter.Campaign = optionalParam(c, "campaign")
	filter.AdSet = optionalParam(c, "ad_set")
	filter.Ad = optionalParam(c, "ad")
	filter.Keyword = optionalParam(c, "keyword")
	filter.Search = utils.Trim(c.Query("search"), ' ')
	filter.ExcludeOrganic = c.QueryBool("exclude_organic", false)

	return filter, nil
}

func parseDateParam(c *fiber.Ctx, name string) (time.Time, error) {
	raw := utils.Trim(c.Query(name), ' ')
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" date, expected YYYY-MM-DD")
	}
	return t, nil
}

func optionalParam(c *fiber.Ctx, name string) *string {
	if raw := utils.Trim(c.Query(name), ' '); raw != "" {
		return &raw
	}
	return nil
}
