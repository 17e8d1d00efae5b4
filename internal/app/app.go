package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/api"
	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/events"
	healthcheck "github.com/vladislavdragonenkov/canteen/internal/health"
	"github.com/vladislavdragonenkov/canteen/internal/metrics"
	"github.com/vladislavdragonenkov/canteen/internal/service/cart"
	"github.com/vladislavdragonenkov/canteen/internal/service/notification"
	"github.com/vladislavdragonenkov/canteen/internal/service/order"
	"github.com/vladislavdragonenkov/canteen/internal/service/search"
	"github.com/vladislavdragonenkov/canteen/internal/storage/localstore"
	"github.com/vladislavdragonenkov/canteen/internal/storage/memory"
	"github.com/vladislavdragonenkov/canteen/internal/version"
)

// Config описывает настройки запуска приложения.
type Config struct {
	APIAddr     string
	MetricsAddr string
	DataDir     string

	// StorageDriver выбирает хранилище состояния: "local" (файловое)
	// или "memory" (эфемерное, для демо и тестов).
	StorageDriver string

	// StrictTransitions включает граф переходов статусов заказов.
	StrictTransitions bool

	ToastDuration time.Duration
	FadeDuration  time.Duration
}

// DefaultConfig возвращает базовые адреса и длительности.
func DefaultConfig() Config {
	return Config{
		APIAddr:           ":8080",
		MetricsAddr:       ":9090",
		DataDir:           "./data",
		StorageDriver:     "local",
		StrictTransitions: true,
		ToastDuration:     domain.ToastDuration,
		FadeDuration:      domain.FadeDuration,
	}
}

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	var (
		store   domain.StateStore
		checker healthcheck.Checker
	)
	switch cfg.StorageDriver {
	case "memory":
		store = memory.New()
		logger.Info("используем in-memory хранилище, состояние не переживёт перезапуск")
	default:
		fileStore, err := localstore.New(cfg.DataDir, log.WithField("component", "localstore"))
		if err != nil {
			return err
		}
		store = fileStore
		checker = healthcheck.NewSimpleChecker("storage", fileStore.Check)
		logger.WithField("data_dir", cfg.DataDir).Info("файловое хранилище инициализировано")
	}

	m := metrics.NewCanteenMetrics()
	bus := events.NewBus()
	panels := api.NewPanelState()

	toasts := notification.NewPresenter(cfg.ToastDuration, cfg.FadeDuration, m, log.WithField("component", "toasts"))
	defer toasts.Close()

	notificationMgr := notification.NewManager(store, toasts, panels, bus, m, log.WithField("component", "notifications"))
	cartMgr := cart.NewManager(store, notificationMgr, panels, bus, m, log.WithField("component", "cart"))

	var orderOpts []order.Option
	if !cfg.StrictTransitions {
		orderOpts = append(orderOpts, order.WithUnrestrictedTransitions())
	}
	orderMgr := order.NewManager(store, cartMgr, notificationMgr, bus, m, log.WithField("component", "orders"), orderOpts...)

	// Восстанавливаем сохранённое состояние до первого запроса.
	notificationMgr.Load()
	cartMgr.Load()
	orderMgr.Load()

	canteens := DefaultCanteens()
	menu := DefaultMenu()
	index := search.NewIndex(canteens, menu, notificationMgr, orderMgr, log.WithField("component", "search"))
	index.Bind(bus)

	apiServer := api.NewServer(cartMgr, orderMgr, notificationMgr, index, panels, canteens, menu, log.WithField("component", "api"))

	// HTTP Health checks
	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if checker != nil {
		healthHandler.RegisterChecker("storage", checker)
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.APIAddr, Handler: apiServer.Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.APIAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
