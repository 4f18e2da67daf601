package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers/cancel_appointment"
	computeAvailabilityHandler "github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers/compute_availability"
	getAppointmentHandler "github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers/get_appointment"
	rescheduleAppointmentHandler "github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers/reschedule_appointment"
	scheduleAppointmentHandler "github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers/schedule_appointment"
	"github.com/QueueM/QueueMe-SchedulingService/internal/api/middleware"
	"github.com/QueueM/QueueMe-SchedulingService/internal/config"
	appointmentRepo "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
	directoryServiceClient "github.com/QueueM/QueueMe-SchedulingService/internal/integrations/directoryservice"
	allocationService "github.com/QueueM/QueueMe-SchedulingService/internal/service/allocation"
	conflictService "github.com/QueueM/QueueMe-SchedulingService/internal/service/conflict"
	cancelAppointmentUC "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/cancel_appointment"
	computeAvailabilityUC "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
	getAppointmentUC "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/get_appointment"
	rescheduleAppointmentUC "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/reschedule_appointment"
	scheduleAppointmentUC "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/dbmetrics"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/logger"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/metrics"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/simpletxmanager"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting QueueMe-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент справочника салонов
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (DirectoryService=%s timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout)

	// Инициализируем репозиторий и transaction manager (с метриками или без)
	var appointmentRepository *appointmentRepo.Repository

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Веса подбора специалиста проверяются на старте: ошибка конфигурации
	// не должна дожить до обработки запросов
	weights := allocationService.Weights{
		Workload:           cfg.Scheduling.WorkloadWeight,
		Skills:             cfg.Scheduling.SkillsWeight,
		CustomerPreference: cfg.Scheduling.CustomerPreferenceWeight,
		WaitTime:           cfg.Scheduling.WaitTimeWeight,
		Performance:        cfg.Scheduling.PerformanceWeight,
	}
	allocator, err := allocationService.NewService(weights, log)
	if err != nil {
		log.Fatal("Invalid allocation weights in config: %v", err)
	}

	conflicts := conflictService.NewService(appointmentRepository, log)

	// Инициализируем use cases
	availabilityUseCase := computeAvailabilityUC.NewUseCase(
		appointmentRepository,
		directoryClient,
		time.Duration(cfg.Scheduling.AvailabilityCacheTTL)*time.Second,
		cfg.Scheduling.WorkloadWindowDays,
		cfg.Scheduling.MinBookingNoticeMinutes,
		log,
	)

	var schedulerMetrics scheduleAppointmentUC.Metrics
	if cfg.Metrics.Enabled {
		schedulerMetrics = metricsCollector
	}

	scheduleUseCase := scheduleAppointmentUC.NewUseCase(
		availabilityUseCase,
		conflicts,
		allocator,
		appointmentRepository,
		appointmentRepository,
		txMgr,
		cfg.Scheduling.MaxCommitRetries,
		schedulerMetrics,
		log,
	)

	rescheduleUseCase := rescheduleAppointmentUC.NewUseCase(
		scheduleUseCase,
		appointmentRepository,
		availabilityUseCase,
		log,
	)

	cancelUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityUseCase,
		log,
	)

	getAppointmentUseCase := getAppointmentUC.NewUseCase(appointmentRepository, log)

	// Инициализируем handlers
	computeAvailability := computeAvailabilityHandler.NewHandler(availabilityUseCase, log)
	scheduleAppointment := scheduleAppointmentHandler.NewHandler(scheduleUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(getAppointmentUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты салона для услуги на дату
	api.HandleFunc("/shops/{shopId}/availability",
		computeAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Запись на услугу или последовательность услуг
	protected.HandleFunc("/appointments", scheduleAppointment.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Перенос бронирования на другое время
	protected.HandleFunc("/appointments/{appointmentId}/reschedule",
		rescheduleAppointment.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
