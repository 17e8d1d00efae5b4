package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/app"
	"github.com/vladislavdragonenkov/canteen/internal/version"
)

const (
	envAPIAddr           = "CANTEEN_API_ADDR"
	envMetricsAddr       = "CANTEEN_METRICS_ADDR"
	envDataDir           = "CANTEEN_DATA_DIR"
	envStorageDriver     = "CANTEEN_STORAGE_DRIVER"
	envStrictTransitions = "CANTEEN_STRICT_TRANSITIONS"
	envToastDuration     = "CANTEEN_TOAST_DURATION"
	envLogLevel          = "CANTEEN_LOG_LEVEL"
)

// envLookup абстрагирует os.LookupEnv для тестируемости.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(lookup envLookup) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if raw, ok := lookup(envLogLevel); ok {
		level, err := log.ParseLevel(strings.TrimSpace(raw))
		if err != nil {
			log.WithField("value", raw).Warn("неизвестный уровень логирования, используем info")
			return
		}
		log.SetLevel(level)
	}
}

// readConfigFromEnv формирует конфигурацию приложения из переменных
// окружения. Невалидные значения не прерывают запуск: остаётся значение
// по умолчанию, а предупреждение возвращается вызывающему.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookup(envAPIAddr); ok && strings.TrimSpace(v) != "" {
		cfg.APIAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envDataDir); ok && strings.TrimSpace(v) != "" {
		cfg.DataDir = strings.TrimSpace(v)
	}

	if v, ok := lookup(envStorageDriver); ok {
		driver := strings.ToLower(strings.TrimSpace(v))
		switch driver {
		case "local", "memory":
			cfg.StorageDriver = driver
		default:
			warnings = append(warnings, fmt.Sprintf("%s: unknown driver %q, using %q", envStorageDriver, v, cfg.StorageDriver))
		}
	}

	if v, ok := lookup(envStrictTransitions); ok {
		strict, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envStrictTransitions, err))
		} else {
			cfg.StrictTransitions = strict
		}
	}

	if v, ok := lookup(envToastDuration); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("%s: %v", envToastDuration, err))
		case d <= 0:
			warnings = append(warnings, fmt.Sprintf("%s: must be positive", envToastDuration))
		default:
			cfg.ToastDuration = d
		}
	}

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", raw)
}

func main() {
	setupLogger(os.LookupEnv)
	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"api_addr":     cfg.APIAddr,
		"metrics_addr": cfg.MetricsAddr,
		"data_dir":     cfg.DataDir,
		"storage":      cfg.StorageDriver,
		"version":      version.String(),
	}).Info("запускаем canteen-service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("canteen-service остановлен")
}
