package handler

import (
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/validator"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase/dto"
	"github.com/PepeluiMoreno/sipi-etl/internal/worker"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RegionHandler expone la gestión de regiones y el disparo de scans
type RegionHandler struct {
	regionUC *usecase.RegionUseCase
	scanUC   *usecase.RegionScanUseCase
	monitor  *worker.Monitor
	logger   *zap.Logger
}

func NewRegionHandler(
	regionUC *usecase.RegionUseCase,
	scanUC *usecase.RegionScanUseCase,
	monitor *worker.Monitor,
	logger *zap.Logger,
) *RegionHandler {
	return &RegionHandler{
		regionUC: regionUC,
		scanUC:   scanUC,
		monitor:  monitor,
		logger:   logger,
	}
}

// Create da de alta una región. Con auto_start lanza un scan inicial y
// arranca el monitoreo periódico.
func (h *RegionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	region, err := h.regionUC.Create(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	if req.AutoStart {
		if _, err := h.scanUC.Scan(c.Context(), region.ID); err != nil {
			h.logger.Warn("Initial scan failed",
				zap.Int64("region_id", region.ID),
				zap.Error(err))
		}
		interval := time.Duration(req.IntervalHours) * time.Hour
		h.monitor.Start(region.ID, interval)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse{
		Data: dto.NewRegionResponse(region),
	})
}

func (h *RegionHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", false)

	regions, err := h.regionUC.List(c.Context(), activeOnly)
	if err != nil {
		return utils.SendError(c, err)
	}

	responses := make([]*dto.RegionResponse, 0, len(regions))
	for _, region := range regions {
		responses = append(responses, dto.NewRegionResponse(region))
	}

	return utils.SendSuccess(c, responses, &utils.Meta{Total: len(responses)})
}

func (h *RegionHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	region, err := h.regionUC.Get(c.Context(), int64(id))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewRegionResponse(region), nil)
}

// Deactivate también detiene el monitoreo de la región si estaba activo
func (h *RegionHandler) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.regionUC.Deactivate(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	h.monitor.Stop(int64(id))

	return utils.SendSuccess(c, fiber.Map{"deactivated": true}, nil)
}

func (h *RegionHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.regionUC.Delete(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	h.monitor.Stop(int64(id))

	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}

// Scan dispara un scan síncrono de la región
func (h *RegionHandler) Scan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	start := time.Now()
	alerts, err := h.scanUC.Scan(c.Context(), int64(id))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ScanResponse{
		RegionID: int64(id),
		Alerts:   alerts,
		Count:    len(alerts),
	}, &utils.Meta{TimeMSec: float64(time.Since(start).Milliseconds())})
}

// StartMonitor arranca el bucle periódico de la región
func (h *RegionHandler) StartMonitor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	var req dto.StartMonitorRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		if err := validator.Validate(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"validation": err.Error(),
			}))
		}
	}

	// La región tiene que existir antes de monitorearla
	if _, err := h.regionUC.Get(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}

	interval := time.Duration(req.IntervalHours) * time.Hour
	h.monitor.Start(int64(id), interval)

	return utils.SendSuccess(c, fiber.Map{"monitoring": true}, nil)
}

func (h *RegionHandler) StopMonitor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	stopped := h.monitor.Stop(int64(id))
	return utils.SendSuccess(c, fiber.Map{"stopped": stopped}, nil)
}

// ListMonitored devuelve las regiones con bucle activo
func (h *RegionHandler) ListMonitored(c *fiber.Ctx) error {
	ids := h.monitor.Running()
	return utils.SendSuccess(c, fiber.Map{"region_ids": ids}, &utils.Meta{Total: len(ids)})
}
