package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/cancel_booking"
	createBlockedIntervalHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/create_blocked_interval"
	deleteBlockedIntervalHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/delete_blocked_interval"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_customer_bookings"
	getTenantBookingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_tenant_bookings"
	getWeeklyHoursHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_weekly_hours"
	initDefaultWeeklyHoursHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/init_default_weekly_hours"
	listBlockedIntervalsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/list_blocked_intervals"
	paymentCallbackHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/payment_callback"
	reapExpiredHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/reap_expired"
	replaceWeeklyHoursHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/replace_weekly_hours"
	reserveSlotHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/reserve_slot"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/config"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/events"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/lock/redislock"
	tenantServiceClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
	blocksService "github.com/m04kA/SMC-BookingEngine/internal/service/blocks"
	bookingsService "github.com/m04kA/SMC-BookingEngine/internal/service/bookings"
	weeklyHoursService "github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours"
	getAvailableSlotsUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
	reserveSlotUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-BookingEngine/pkg/keylock"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/metrics"
)

// tenantDirectory источник тенантов и типов сессий
type tenantDirectory interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	GetSessionType(ctx context.Context, tenantID, sessionTypeID uuid.UUID) (*domain.SessionType, error)
}

// eventPublisher издатель доменных событий с освобождением ресурсов при остановке
type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
	Close() error
}

// locker блокировка резервирования по ключам дня
type locker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-BookingEngine...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	// Методы Record* безопасны для nil, поэтому без метрик передаем nil
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище (Postgres или память)
	store, err := openStorage(cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to open storage (driver=%s): %v", cfg.Database.Driver, err)
	}
	defer store.close()

	// Справочник тенантов
	var tenants tenantDirectory
	if cfg.TenantService.URL != "" {
		tenants = tenantServiceClient.NewClient(
			cfg.TenantService.URL,
			time.Duration(cfg.TenantService.Timeout)*time.Second,
			log,
		)
		log.Info("TenantService client initialized (url=%s, timeout=%ds)", cfg.TenantService.URL, cfg.TenantService.Timeout)
	} else {
		tenants = store.memory.Tenants()
		log.Warn("TenantService url is empty: using in-memory tenant directory")
	}

	// Блокировка резервирования: Redis для нескольких инстансов, иначе внутри процесса
	var reservationLocker locker
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis (addr=%s): %v", cfg.Redis.Addr, err)
		}

		reservationLocker = redislock.New(redisClient, redislock.Options{
			TTL:    cfg.Booking.LockTTL(),
			Prefix: cfg.Redis.Prefix,
		}, log)
		log.Info("Reservation lock: redis (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Booking.LockTTL())
	} else {
		reservationLocker = keylock.New()
		log.Info("Reservation lock: in-process")
	}

	// Издатель доменных событий
	var publisher eventPublisher
	if cfg.Kafka.Enabled() {
		writer, err := events.NewKafkaWriter(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal("Failed to create kafka writer: %v", err)
		}
		publisher = events.NewKafkaPublisher(writer, events.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			TopicPrefix:  cfg.Kafka.TopicPrefix,
			QueueSize:    cfg.Kafka.QueueSize,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
		}, metricsCollector, log)
		log.Info("Domain events: kafka (brokers=%v, topic_prefix=%s)", cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
	} else {
		publisher = events.NewLogPublisher(metricsCollector, log)
		log.Info("Domain events: log")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем сервисы
	weeklyHoursSvc := weeklyHoursService.NewService(
		store.weeklyHours,
		tenants,
		store.tx,
		log,
	)
	blocksSvc := blocksService.NewService(
		store.blocks,
		store.bookings,
		tenants,
		store.tx,
		log,
	)
	bookingSvc := bookingsService.NewService(
		store.bookings,
		tenants,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		tenants,
		weeklyHoursSvc,
		store.blocks,
		store.bookings,
		metricsCollector,
		getAvailableSlotsUC.Options{
			Step:                  cfg.Booking.SlotStep(),
			MaxSessionMinutes:     cfg.Booking.MaxSessionMinutes,
			MaxAdvanceBookingDays: cfg.Booking.MaxAdvanceDays,
		},
		log,
	)

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		store.bookings,
		store.blocks,
		weeklyHoursSvc,
		tenants,
		reservationLocker,
		store.tx,
		publisher,
		metricsCollector,
		reserveSlotUC.Options{
			Step:                  cfg.Booking.SlotStep(),
			MaxSessionMinutes:     cfg.Booking.MaxSessionMinutes,
			MaxAdvanceBookingDays: cfg.Booking.MaxAdvanceDays,
			AutoConfirmFree:       cfg.Booking.AutoConfirmFreeSessions,
			LockWait:              cfg.Booking.LockWait(),
		},
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	paymentCallback := paymentCallbackHandler.NewHandler(bookingSvc, log)
	reapExpired := reapExpiredHandler.NewHandler(bookingSvc, log)
	getWeeklyHours := getWeeklyHoursHandler.NewHandler(weeklyHoursSvc, log)
	replaceWeeklyHours := replaceWeeklyHoursHandler.NewHandler(weeklyHoursSvc, log)
	initDefaultWeeklyHours := initDefaultWeeklyHoursHandler.NewHandler(weeklyHoursSvc, log)
	listBlockedIntervals := listBlockedIntervalsHandler.NewHandler(blocksSvc, log)
	createBlockedInterval := createBlockedIntervalHandler.NewHandler(blocksSvc, log)
	deleteBlockedInterval := deleteBlockedIntervalHandler.NewHandler(blocksSvc, log)

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

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// INTERNAL ROUTES (платежный провайдер и планировщик, X-Internal-Token)
	// ============================================================

	internal := api.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.InternalToken(cfg.Internal.Token))
	if cfg.Internal.Token == "" {
		log.Warn("internal.token is empty: all /internal routes will be rejected")
	}

	// Подтверждение и неуспех оплаты
	internal.HandleFunc("/bookings/{bookingId}/payment-confirmed", paymentCallback.HandleConfirmed).Methods(http.MethodPost)
	internal.HandleFunc("/bookings/{bookingId}/payment-failed", paymentCallback.HandleFailed).Methods(http.MethodPost)

	// Отмена неоплаченных бронирований (cmd/reaper)
	internal.HandleFunc("/bookings/reap-expired", reapExpired.Handle).Methods(http.MethodPost)

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, metricsCollector, log)
		public.Use(limiter.Middleware)
		log.Info("Rate limit on public routes: rps=%.1f burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Получение доступных слотов для бронирования
	public.HandleFunc("/tenants/{tenantId}/session-types/{sessionTypeId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение недельного расписания тенанта
	public.HandleFunc("/tenants/{tenantId}/weekly-hours", getWeeklyHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Резервирование слота
	protected.HandleFunc("/bookings", reserveSlot.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Бронирования клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// Бронирования тенанта (только менеджеры)
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// --- Управление тенантом (для менеджеров) ---
	// Полная замена недельного расписания
	protected.HandleFunc("/tenants/{tenantId}/weekly-hours", replaceWeeklyHours.Handle).Methods(http.MethodPut)

	// Шаблон расписания по умолчанию
	protected.HandleFunc("/tenants/{tenantId}/weekly-hours/defaults", initDefaultWeeklyHours.Handle).Methods(http.MethodPost)

	// Блокировки времени
	protected.HandleFunc("/tenants/{tenantId}/blocked-intervals", listBlockedIntervals.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/blocked-intervals", createBlockedInterval.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId}/blocked-intervals/{blockId}", deleteBlockedInterval.Handle).Methods(http.MethodDelete)

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
