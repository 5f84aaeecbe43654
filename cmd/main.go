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
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	cancelSeriesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_series"
	changeStateHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/change_appointment_state"
	clientsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/clients"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	daysOffHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/days_off"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getSeriesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_series"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	servicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/services"
	updateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment"
	updateSeriesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_series"
	usageHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/usage"
	workingHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/working_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	usageCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/usage"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/locker"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	usageRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/usage"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/reminders"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	calendarService "github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	clientsService "github.com/m04kA/SMC-AppointmentService/internal/service/clients"
	quotaService "github.com/m04kA/SMC-AppointmentService/internal/service/quota"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	updateAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/redisclient"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone %q: %v", cfg.Scheduling.Timezone, err)
	}
	preferredFrom, err := types.NewTimeStringFromString(cfg.Scheduling.PreferredFrom)
	if err != nil {
		log.Fatal("Invalid scheduling.preferred_from: %v", err)
	}
	preferredTo, err := types.NewTimeStringFromString(cfg.Scheduling.PreferredTo)
	if err != nil {
		log.Fatal("Invalid scheduling.preferred_to: %v", err)
	}

	// Инициализируем метрики (если включены).
	// nil-коллектор везде допустим: обёртки просто не пишут метрики.
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Подключаемся к Redis: блокировки дня и кэш счётчиков
	rdb, err := redisclient.New(redisclient.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()
	log.Info("Successfully connected to redis (address=%s, db=%d)", cfg.Redis.Address, cfg.Redis.DB)

	dayLocker := locker.New(rdb, cfg.Scheduling.LockTTL(), cfg.Scheduling.LockWait())
	counters := usageCache.NewCache(rdb, time.Duration(cfg.Redis.UsageTTL)*time.Second)

	// Очередь напоминаний (asynq поверх того же Redis)
	var reminderClient *reminders.Client
	if cfg.Reminders.Enabled {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer asynqClient.Close()

		reminderClient = reminders.NewClient(
			asynqClient,
			cfg.Reminders.Queue,
			cfg.Reminders.LeadTime(),
			cfg.Reminders.MaxRetry,
			log,
		)
		log.Info("Reminders enabled (queue=%s, lead=%s)", cfg.Reminders.Queue, cfg.Reminders.LeadTime())
	} else {
		log.Info("Reminders disabled")
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	usageRepository := usageRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	quotaSvc := quotaService.NewService(
		tenantRepository,
		clientRepository,
		catalogRepository,
		appointmentRepository,
		usageRepository,
		counters,
		cfg.PlanLimits(),
		location,
		metricsCollector,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, txMgr, location, log)
	calendarSvc := calendarService.NewService(calendarRepository, txMgr, location, log)
	catalogSvc := catalogService.NewService(catalogRepository, quotaSvc, log)
	clientsSvc := clientsService.NewService(clientRepository, quotaSvc, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		clientRepository,
		calendarRepository,
		quotaSvc,
		dayLocker,
		reminderClient,
		metricsCollector,
		txMgr,
		createAppointmentUC.Options{
			Location:                  location,
			ValidateRecurringChildren: cfg.Scheduling.ValidateRecurringChildren,
			MaxOccurrences:            cfg.Recurrence.MaxOccurrences,
			RejectPastStarts:          cfg.Scheduling.RejectPastBookings,
		},
		log,
	)

	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		clientRepository,
		calendarRepository,
		dayLocker,
		metricsCollector,
		txMgr,
		updateAppointmentUC.Options{
			Location:         location,
			RejectPastStarts: cfg.Scheduling.RejectPastBookings,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		calendarRepository,
		metricsCollector,
		getAvailableSlotsUC.Options{
			Location:      location,
			GridMinutes:   cfg.Scheduling.GridMinutes,
			PreferredFrom: preferredFrom,
			PreferredTo:   preferredTo,
		},
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, location, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, location, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, location, log)
	changeState := changeStateHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getSeries := getSeriesHandler.NewHandler(appointmentsSvc, log)
	updateSeries := updateSeriesHandler.NewHandler(appointmentsSvc, log)
	cancelSeries := cancelSeriesHandler.NewHandler(appointmentsSvc, log)
	workingHours := workingHoursHandler.NewHandler(calendarSvc, log)
	daysOff := daysOffHandler.NewHandler(calendarSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	clients := clientsHandler.NewHandler(clientsSvc, log)
	usage := usageHandler.NewHandler(quotaSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix. Все маршруты требуют X-Tenant-ID и X-Role
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(tenantRepository, log))
	authz := middleware.NewAuthorizer(middleware.DefaultPermissions())

	// --- Записи ---
	api.HandleFunc("/appointments",
		authz.Require(middleware.PermAppointmentsWrite, createAppointment.Handle)).Methods(http.MethodPost)
	api.HandleFunc("/appointments",
		authz.Require(middleware.PermAppointmentsRead, listAppointments.Handle)).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}",
		authz.Require(middleware.PermAppointmentsRead, getAppointment.Handle)).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}",
		authz.Require(middleware.PermAppointmentsWrite, updateAppointment.Handle)).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/state",
		authz.Require(middleware.PermAppointmentsWrite, changeState.Handle)).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/cancel",
		authz.Require(middleware.PermAppointmentsWrite, cancelAppointment.Handle)).Methods(http.MethodPatch)

	// Доступные слоты
	api.HandleFunc("/availability",
		authz.Require(middleware.PermAppointmentsRead, getAvailableSlots.Handle)).Methods(http.MethodGet)

	// --- Серии ---
	api.HandleFunc("/series/{parentId}",
		authz.Require(middleware.PermAppointmentsRead, getSeries.Handle)).Methods(http.MethodGet)
	api.HandleFunc("/series/{parentId}",
		authz.Require(middleware.PermAppointmentsWrite, updateSeries.Handle)).Methods(http.MethodPatch)
	api.HandleFunc("/series/{parentId}/cancel",
		authz.Require(middleware.PermAppointmentsWrite, cancelSeries.Handle)).Methods(http.MethodPatch)

	// --- Календарь ---
	api.HandleFunc("/working-hours",
		authz.Require(middleware.PermCalendarRead, workingHours.List)).Methods(http.MethodGet)
	api.HandleFunc("/working-hours",
		authz.Require(middleware.PermCalendarWrite, workingHours.Upsert)).Methods(http.MethodPut)
	api.HandleFunc("/days-off",
		authz.Require(middleware.PermCalendarRead, daysOff.List)).Methods(http.MethodGet)
	api.HandleFunc("/days-off",
		authz.Require(middleware.PermCalendarWrite, daysOff.Add)).Methods(http.MethodPost)
	api.HandleFunc("/days-off/{date}",
		authz.Require(middleware.PermCalendarWrite, daysOff.Remove)).Methods(http.MethodDelete)

	// --- Каталог услуг ---
	api.HandleFunc("/services",
		authz.Require(middleware.PermCatalogRead, services.List)).Methods(http.MethodGet)
	api.HandleFunc("/services",
		authz.Require(middleware.PermCatalogWrite, services.Create)).Methods(http.MethodPost)
	api.HandleFunc("/services/{serviceId}/deactivate",
		authz.Require(middleware.PermCatalogWrite, services.Deactivate)).Methods(http.MethodPatch)

	// --- Клиенты ---
	api.HandleFunc("/clients",
		authz.Require(middleware.PermClientsRead, clients.List)).Methods(http.MethodGet)
	api.HandleFunc("/clients",
		authz.Require(middleware.PermClientsWrite, clients.Create)).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientId}",
		authz.Require(middleware.PermClientsRead, clients.Get)).Methods(http.MethodGet)

	// --- Тариф и использование ---
	api.HandleFunc("/usage",
		authz.Require(middleware.PermUsageRead, usage.Usage)).Methods(http.MethodGet)
	api.HandleFunc("/features/{name}",
		authz.Require(middleware.PermUsageRead, usage.Feature)).Methods(http.MethodGet)

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
	close(stopMetricsCh)

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
