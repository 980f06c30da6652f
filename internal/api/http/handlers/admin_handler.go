package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// AdminHandler exposes operational views for administrators.
type AdminHandler struct {
	tickets *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(tickets *service.TicketService) *AdminHandler {
	return &AdminHandler{tickets: tickets}
}

// ListSyncJobs GET /admin/sync-jobs.
func (h *AdminHandler) ListSyncJobs(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	jobs, err := h.tickets.ListSyncJobs(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.SyncJobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, syncJobResponse(job))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAuditLog GET /admin/audit-log.
func (h *AdminHandler) ListAuditLog(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := h.tickets.ListAuditLog(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, auditEntryResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}

func syncJobResponse(job domain.SyncJobListing) dto.SyncJobResponse {
	return dto.SyncJobResponse{
		ID:            job.ID,
		TicketID:      job.TicketID,
		TicketSubject: job.TicketSubject,
		System:        job.System,
		Status:        job.Status,
		Attempts:      job.Attempts,
		LastError:     job.LastError,
		NextRunAt:     job.NextRunAt,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}
