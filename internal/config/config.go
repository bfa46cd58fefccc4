package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string `mapstructure:"DB_DSN"`
	Environment string `mapstructure:"ENV"`

	TelegramToken    string  `mapstructure:"TELEGRAM_TOKEN"`
	TelegramAdminIDs []int64 `mapstructure:"TELEGRAM_ADMIN_IDS"`

	BusinessTimezone       string         `mapstructure:"BUSINESS_TIMEZONE"`
	Location               *time.Location `mapstructure:"-"`
	SlotGranularityMinutes int            `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	BookingTimeout         time.Duration  `mapstructure:"BOOKING_TIMEOUT"`
	LockTimeout            time.Duration  `mapstructure:"LOCK_TIMEOUT"`

	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int           `mapstructure:"REDIS_DB"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE"`

	NoShowAfter         time.Duration `mapstructure:"NO_SHOW_AFTER"`
	NoShowSweepInterval time.Duration `mapstructure:"NO_SHOW_SWEEP_INTERVAL"`

	RunMigrations bool `mapstructure:"RUN_MIGRATIONS"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// FromEnv собирает конфиг из переменных окружения, getenv обычно os.Getenv
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		DBDSN:       getenv("DB_DSN"),
		Environment: p.str("ENV", "development"),

		TelegramToken:    getenv("TELEGRAM_TOKEN"),
		TelegramAdminIDs: p.ids("TELEGRAM_ADMIN_IDS"),

		BusinessTimezone:       p.str("BUSINESS_TIMEZONE", "UTC"),
		SlotGranularityMinutes: p.integer("SLOT_GRANULARITY_MINUTES", 30),
		BookingTimeout:         p.duration("BOOKING_TIMEOUT", 5*time.Second),
		LockTimeout:            p.duration("LOCK_TIMEOUT", 3*time.Second),

		RedisAddr:            getenv("REDIS_ADDR"),
		RedisPassword:        getenv("REDIS_PASSWORD"),
		RedisDB:              p.integer("REDIS_DB", 0),
		AvailabilityCacheTTL: p.duration("AVAILABILITY_CACHE_TTL", time.Minute),

		RabbitMQURL:    getenv("RABBITMQ_URL"),
		EventsExchange: p.str("EVENTS_EXCHANGE", "salon.bookings"),

		NoShowAfter:         p.duration("NO_SHOW_AFTER", 0),
		NoShowSweepInterval: p.duration("NO_SHOW_SWEEP_INTERVAL", 15*time.Minute),

		RunMigrations: p.boolean("RUN_MIGRATIONS", true),
	}

	if p.err != nil {
		return nil, p.err
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.SlotGranularityMinutes <= 0 {
		return nil, fmt.Errorf("SLOT_GRANULARITY_MINUTES must be positive, got %d", cfg.SlotGranularityMinutes)
	}
	if cfg.NoShowAfter > 0 && cfg.NoShowSweepInterval <= 0 {
		return nil, fmt.Errorf("NO_SHOW_SWEEP_INTERVAL must be positive when NO_SHOW_AFTER is set")
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("BUSINESS_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsAdmin проверяет, есть ли пользователь Telegram в списке администраторов
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.TelegramAdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// parser запоминает первую ошибку разбора
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (p *parser) str(key, def string) string {
	if v := p.getenv(key); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *parser) boolean(key string, def bool) bool {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	if d < 0 {
		p.fail(key, fmt.Errorf("negative duration %s", v))
		return def
	}
	return d
}

func (p *parser) ids(key string) []int64 {
	var ids []int64
	for _, part := range strings.Split(p.getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			p.fail(key, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
