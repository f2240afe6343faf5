package handler

import (
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/validator"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultAlertLimit = 100

// AlertHandler expone la consulta y gestión de alertas de región
type AlertHandler struct {
	regionUC *usecase.RegionUseCase
	logger   *zap.Logger
}

func NewAlertHandler(regionUC *usecase.RegionUseCase, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		regionUC: regionUC,
		logger:   logger,
	}
}

// GetByRegion lista las alertas de la región, opcionalmente solo las
// pendientes de notificar
func (h *AlertHandler) GetByRegion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	unnotifiedOnly := c.QueryBool("unnotified_only", false)
	limit := c.QueryInt("limit", defaultAlertLimit)
	if limit <= 0 || limit > 1000 {
		limit = defaultAlertLimit
	}

	alerts, err := h.regionUC.GetAlerts(c.Context(), int64(id), unnotifiedOnly, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, alerts, &utils.Meta{Total: len(alerts)})
}

// MarkNotified marca un lote de alertas como notificadas
func (h *AlertHandler) MarkNotified(c *fiber.Ctx) error {
	var req dto.MarkNotifiedRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	if err := h.regionUC.MarkAlertsNotified(c.Context(), req.AlertIDs); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"marked": len(req.AlertIDs)}, nil)
}
