package delete_blocked_interval

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidBlockID  = "некорректный ID блокировки"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgTenantNotFound  = "тенант не найден"
	msgBlockNotFound   = "блокировка не найдена"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BlocksService
	logger  Logger
}

func NewHandler(service BlocksService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/tenants/{tenantId}/blocked-intervals/{blockId}
// Повторное удаление возвращает 204
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("DELETE /tenants/{id}/blocked-intervals/{id} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	blockID, err := handlers.UUIDVar(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /tenants/{id}/blocked-intervals/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /tenants/{id}/blocked-intervals/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Delete(r.Context(), &models.DeleteBlockRequest{
		TenantID: tenantID,
		BlockID:  blockID,
		UserID:   userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrTenantNotFound):
			h.logger.Warn("DELETE /tenants/{id}/blocked-intervals/{id} - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, blocks.ErrBlockNotFound):
			h.logger.Warn("DELETE /tenants/{id}/blocked-intervals/{id} - Block belongs to another tenant: tenant_id=%s, block_id=%s",
				tenantID, blockID)
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("DELETE /tenants/{id}/blocked-intervals/{id} - Access denied: tenant_id=%s, user_id=%s", tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /tenants/{id}/blocked-intervals/{id} - Failed to delete block: block_id=%s, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /tenants/{id}/blocked-intervals/{id} - Block deleted: tenant_id=%s, block_id=%s", tenantID, blockID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
