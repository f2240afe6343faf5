package worker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
	"go.uber.org/zap"
)

type monitorTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Monitor mantiene un bucle de scan periódico por región. Cada región
// corre en su propia goroutine; Start es idempotente por región.
type Monitor struct {
	scanUC *usecase.RegionScanUseCase
	cfg    config.MonitorConfig
	logger *zap.Logger

	mu    sync.Mutex
	tasks map[int64]*monitorTask
}

func NewMonitor(scanUC *usecase.RegionScanUseCase, cfg config.MonitorConfig, logger *zap.Logger) *Monitor {
	return &Monitor{
		scanUC: scanUC,
		cfg:    cfg,
		logger: logger,
		tasks:  make(map[int64]*monitorTask),
	}
}

// Start arranca el monitoreo de la región. Si ya está monitoreada no
// hace nada; interval <= 0 usa el intervalo por defecto. El bucle vive
// hasta Stop/StopAll, no está ligado a ningún contexto de petición.
func (m *Monitor) Start(regionID int64, interval time.Duration) {
	if interval <= 0 {
		interval = m.cfg.DefaultInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[regionID]; ok {
		m.logger.Debug("Region already monitored", zap.Int64("region_id", regionID))
		return
	}

	taskCtx, cancel := context.WithCancel(context.Background())
	task := &monitorTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.tasks[regionID] = task

	m.logger.Info("Region monitoring started",
		zap.Int64("region_id", regionID),
		zap.Duration("interval", interval))

	go m.loop(taskCtx, regionID, interval, task)
}

// loop escanea y duerme hasta la cancelación. Un scan fallido no mata
// el bucle, aplica backoff y reintenta.
func (m *Monitor) loop(ctx context.Context, regionID int64, interval time.Duration, task *monitorTask) {
	defer close(task.done)
	defer m.remove(regionID)

	for {
		sleep := interval

		alerts, err := m.scanUC.Scan(ctx, regionID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Error("Monitored scan failed, backing off",
				zap.Int64("region_id", regionID),
				zap.Duration("backoff", m.cfg.ErrorBackoff),
				zap.Error(err))
			sleep = m.cfg.ErrorBackoff
		} else if len(alerts) > 0 {
			m.logger.Info("Monitored scan produced alerts",
				zap.Int64("region_id", regionID),
				zap.Int("alerts", len(alerts)))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// Stop cancela el bucle de la región y espera a que termine.
// Devuelve false si la región no estaba monitoreada.
func (m *Monitor) Stop(regionID int64) bool {
	m.mu.Lock()
	task, ok := m.tasks[regionID]
	m.mu.Unlock()

	if !ok {
		return false
	}

	task.cancel()
	<-task.done

	m.logger.Info("Region monitoring stopped", zap.Int64("region_id", regionID))
	return true
}

// StopAll detiene todos los bucles activos
func (m *Monitor) StopAll() {
	m.mu.Lock()
	tasks := make(map[int64]*monitorTask, len(m.tasks))
	for id, task := range m.tasks {
		tasks[id] = task
	}
	m.mu.Unlock()

	for id, task := range tasks {
		task.cancel()
		<-task.done
		m.logger.Info("Region monitoring stopped", zap.Int64("region_id", id))
	}
}

// Running devuelve los ids de región monitoreados, ordenados
func (m *Monitor) Running() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *Monitor) remove(regionID int64) {
	m.mu.Lock()
	delete(m.tasks, regionID)
	m.mu.Unlock()
}

// MonitorWorker arranca el monitoreo de todas las regiones activas al
// levantar el daemon
type MonitorWorker struct {
	*BaseWorker
	monitor    *Monitor
	regionRepo repository.RegionRepository
	interval   time.Duration
	logger     *zap.Logger
}

func NewMonitorWorker(
	monitor *Monitor,
	regionRepo repository.RegionRepository,
	cfg config.MonitorConfig,
	logger *zap.Logger,
) *MonitorWorker {
	return &MonitorWorker{
		BaseWorker: NewBaseWorker("region-monitor", logger),
		monitor:    monitor,
		regionRepo: regionRepo,
		interval:   cfg.DefaultInterval,
		logger:     logger,
	}
}

func (w *MonitorWorker) Start(ctx context.Context) error {
	regions, err := w.regionRepo.List(ctx, true)
	if err != nil {
		return err
	}

	for _, region := range regions {
		w.monitor.Start(region.ID, w.interval)
	}

	w.logger.Info("Monitor worker bootstrapped",
		zap.Int("regions", len(regions)))

	select {
	case <-ctx.Done():
	case <-w.StopChan():
	}

	w.monitor.StopAll()
	return nil
}
