package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidConfig конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Redis      RedisConfig      `toml:"redis"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Recurrence RecurrenceConfig `toml:"recurrence"`
	Reminders  RemindersConfig  `toml:"reminders"`
	Plans      []PlanConfig     `toml:"plans"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
	UsageTTL int    `toml:"usage_ttl"` // секунды, 0 - без срока
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SchedulingConfig struct {
	GridMinutes               int    `toml:"grid_minutes"`
	PreferredFrom             string `toml:"preferred_from"`
	PreferredTo               string `toml:"preferred_to"`
	Timezone                  string `toml:"timezone"`
	LockTTLMs                 int    `toml:"lock_ttl_ms"`
	LockWaitMs                int    `toml:"lock_wait_ms"`
	ValidateRecurringChildren bool   `toml:"validate_recurring_children"`
	RejectPastBookings        bool   `toml:"reject_past_bookings"`
}

// Location часовой пояс арендаторов
func (s SchedulingConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

func (s SchedulingConfig) LockTTL() time.Duration {
	return time.Duration(s.LockTTLMs) * time.Millisecond
}

func (s SchedulingConfig) LockWait() time.Duration {
	return time.Duration(s.LockWaitMs) * time.Millisecond
}

type RecurrenceConfig struct {
	MaxOccurrences int `toml:"max_occurrences"` // верхняя граница, которую может запросить клиент
}

type RemindersConfig struct {
	Enabled       bool   `toml:"enabled"`
	Queue         string `toml:"queue"`
	LeadTimeHours int    `toml:"lead_time_hours"`
	MaxRetry      int    `toml:"max_retry"`
}

func (r RemindersConfig) LeadTime() time.Duration {
	return time.Duration(r.LeadTimeHours) * time.Hour
}

// PlanConfig лимиты тарифа; -1 означает без ограничений
type PlanConfig struct {
	Tier                    string `toml:"tier"`
	MaxUsers                int    `toml:"max_users"`
	MaxClients              int    `toml:"max_clients"`
	MaxAppointmentsPerMonth int    `toml:"max_appointments_per_month"`
	MaxServices             int    `toml:"max_services"`
	AdvancedReports         bool   `toml:"reportes_avanzados"`
	SMSWhatsApp             bool   `toml:"sms_whatsapp"`
	PrioritySupport         bool   `toml:"soporte_prioritario"`
}

// Load читает .env (если есть), TOML-файл и переменные окружения SMC_*
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			PoolSize: 10,
			UsageTTL: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc-appointmentservice",
		},
		Scheduling: SchedulingConfig{
			GridMinutes:   domain.DefaultGridMinutes,
			PreferredFrom: domain.DefaultPreferredFrom,
			PreferredTo:   domain.DefaultPreferredTo,
			Timezone:      "UTC",
			LockTTLMs:     5000,
			LockWaitMs:    2000,
		},
		Recurrence: RecurrenceConfig{MaxOccurrences: domain.MaxRecurrenceOccurrences},
		Reminders: RemindersConfig{
			Queue:         "reminders",
			LeadTimeHours: 24,
			MaxRetry:      5,
		},
	}
}

// applyEnv переопределяет значения из файла фиксированным набором переменных окружения
func (c *Config) applyEnv() error {
	strVars := map[string]*string{
		"SMC_DB_HOST":        &c.Database.Host,
		"SMC_DB_USER":        &c.Database.User,
		"SMC_DB_PASSWORD":    &c.Database.Password,
		"SMC_DB_NAME":        &c.Database.DBName,
		"SMC_DB_SSLMODE":     &c.Database.SSLMode,
		"SMC_REDIS_ADDRESS":  &c.Redis.Address,
		"SMC_REDIS_PASSWORD": &c.Redis.Password,
		"SMC_LOG_LEVEL":      &c.Logs.Level,
		"SMC_TIMEZONE":       &c.Scheduling.Timezone,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"SMC_HTTP_PORT":    &c.Server.HTTPPort,
		"SMC_DB_PORT":      &c.Database.Port,
		"SMC_REDIS_DB":     &c.Redis.DB,
		"SMC_GRID_MINUTES": &c.Scheduling.GridMinutes,
	}
	for name, dst := range intVars {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, name, v)
		}
		*dst = n
	}

	return nil
}

// Validate отклоняет невозможные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Scheduling.GridMinutes < domain.MinGridMinutes || c.Scheduling.GridMinutes > domain.MaxGridMinutes {
		return fmt.Errorf("%w: scheduling.grid_minutes must be between %d and %d",
			ErrInvalidConfig, domain.MinGridMinutes, domain.MaxGridMinutes)
	}

	from, err := types.NewTimeStringFromString(c.Scheduling.PreferredFrom)
	if err != nil {
		return fmt.Errorf("%w: scheduling.preferred_from: %v", ErrInvalidConfig, err)
	}
	to, err := types.NewTimeStringFromString(c.Scheduling.PreferredTo)
	if err != nil {
		return fmt.Errorf("%w: scheduling.preferred_to: %v", ErrInvalidConfig, err)
	}
	if !from.IsBefore(to) {
		return fmt.Errorf("%w: scheduling.preferred_from must be before preferred_to", ErrInvalidConfig)
	}

	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Scheduling.LockTTLMs <= 0 || c.Scheduling.LockWaitMs < 0 {
		return fmt.Errorf("%w: scheduling lock timings must be positive", ErrInvalidConfig)
	}
	if c.Recurrence.MaxOccurrences <= 0 {
		return fmt.Errorf("%w: recurrence.max_occurrences must be positive", ErrInvalidConfig)
	}
	if c.Reminders.Enabled && (c.Reminders.Queue == "" || c.Reminders.LeadTimeHours < 0) {
		return fmt.Errorf("%w: reminders need a queue and a non-negative lead time", ErrInvalidConfig)
	}

	if len(c.Plans) == 0 {
		return fmt.Errorf("%w: at least one [[plans]] entry is required", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Plans))
	for _, p := range c.Plans {
		if p.Tier == "" {
			return fmt.Errorf("%w: plan tier must not be empty", ErrInvalidConfig)
		}
		if seen[p.Tier] {
			return fmt.Errorf("%w: duplicate plan tier %q", ErrInvalidConfig, p.Tier)
		}
		seen[p.Tier] = true

		for _, limit := range []int{p.MaxUsers, p.MaxClients, p.MaxAppointmentsPerMonth, p.MaxServices} {
			if limit < domain.Unlimited {
				return fmt.Errorf("%w: plan %q has a limit below -1", ErrInvalidConfig, p.Tier)
			}
		}
	}

	return nil
}

// PlanLimits собирает неизменяемую таблицу тарифов
func (c *Config) PlanLimits() map[domain.PlanTier]domain.PlanLimits {
	plans := make(map[domain.PlanTier]domain.PlanLimits, len(c.Plans))
	for _, p := range c.Plans {
		tier := domain.PlanTier(p.Tier)
		plans[tier] = domain.PlanLimits{
			Tier:                    tier,
			MaxUsers:                p.MaxUsers,
			MaxClients:              p.MaxClients,
			MaxAppointmentsPerMonth: p.MaxAppointmentsPerMonth,
			MaxServices:             p.MaxServices,
			AdvancedReports:         p.AdvancedReports,
			SMSWhatsApp:             p.SMSWhatsApp,
			PrioritySupport:         p.PrioritySupport,
		}
	}
	return plans
}
