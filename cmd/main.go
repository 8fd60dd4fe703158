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
	"github.com/redis/go-redis/v9"

	assignStaffHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/assign_staff"
	checkSlotHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/check_slot"
	createAppointmentHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/get_appointment"
	getStaffAvailabilityHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/get_staff_availability"
	getStatisticsHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/get_statistics"
	healthHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/health"
	listAppointmentsHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/list_appointments"
	updateAppointmentHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/update_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkshopService/internal/config"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/eventbus"
	appointmentsService "github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	getStaffAvailabilityUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/get_staff_availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/logger"
	"github.com/m04kA/SMC-WorkshopService/pkg/metrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-WorkshopService/pkg/txmanager"
)

type eventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
	Close() error
}

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

	log.Info("Starting SMC-WorkshopService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Workshop.Location()
	if err != nil {
		log.Fatal("Invalid workshop timezone %q: %v", cfg.Workshop.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Инициализируем репозиторий и менеджер транзакций (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		txMgr                 appointmentsService.TransactionManager
		domainMetrics         appointmentsService.MetricsRecorder = appointmentsService.NoopMetrics{}
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		domainMetrics = metricsCollector
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Распределенная блокировка слотов (Redis); без Redis гонку закрывают транзакции и уникальные индексы
	var (
		slotLocker  appointmentsService.Locker = lock.NewNoopLocker()
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = lock.NewRedisClient(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			log.Warn("Redis is unavailable, slot locking disabled: %v", err)
		} else {
			defer redisClient.Close()
			slotLocker = lock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTL)*time.Second)
			log.Info("Redis slot locker enabled (ttl=%ds)", cfg.Redis.LockTTL)
		}
	}

	// Публикация событий (RabbitMQ)
	var publisher eventPublisher = eventbus.NewNoopPublisher()
	if cfg.Events.Enabled {
		amqpPublisher, err := eventbus.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			log.Warn("RabbitMQ is unavailable, appointment events disabled: %v", err)
		} else {
			publisher = amqpPublisher
			log.Info("Appointment events are published to exchange %s", cfg.Events.Exchange)
		}
	}
	defer publisher.Close()

	// Инициализируем сервисы
	slotChecker := availability.NewChecker(appointmentRepository, log)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		slotChecker,
		txMgr,
		slotLocker,
		publisher,
		domainMetrics,
		location,
		log,
	)

	// Инициализируем use cases
	openTime, closeTime, err := cfg.Workshop.Hours()
	if err != nil {
		log.Fatal("Invalid workshop hours: %v", err)
	}
	getStaffAvailabilityUseCase, err := getStaffAvailabilityUC.NewUseCase(
		appointmentRepository,
		getStaffAvailabilityUC.Schedule{
			OpenTime:         openTime,
			CloseTime:        closeTime,
			SlotMinutes:      cfg.Workshop.SlotMinutes,
			MinNoticeMinutes: cfg.Workshop.MinNoticeMinutes,
			Location:         location,
		},
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize staff availability use case: %v", err)
	}

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	assignStaff := assignStaffHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	getStatistics := getStatisticsHandler.NewHandler(appointmentSvc, log)
	checkSlot := checkSlotHandler.NewHandler(appointmentSvc, log)
	getStaffAvailability := getStaffAvailabilityHandler.NewHandler(getStaffAvailabilityUseCase, log)

	healthChecks := []healthHandler.Check{
		{Name: "postgres", Required: true, Ping: db.PingContext},
	}
	if redisClient != nil {
		healthChecks = append(healthChecks, healthHandler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	health := healthHandler.NewHandler(cfg.Metrics.ServiceName, healthChecks, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health/live", health.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", health.Readiness).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Записи ---
	// Статические пути регистрируем раньше /appointments/{appointmentId}
	api.HandleFunc("/appointments/statistics", getStatistics.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/slot-check", checkSlot.Handle).Methods(http.MethodGet)

	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/staff", assignStaff.Handle).Methods(http.MethodPatch)

	// --- Механики ---
	api.HandleFunc("/staff/{staffId}/availability", getStaffAvailability.Handle).Methods(http.MethodGet)

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
