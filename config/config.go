package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/availability"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration values.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	TimeZone string `mapstructure:"TIME_ZONE"`

	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DatabaseURL string `mapstructure:"DB_URL"`
	SeedCatalog bool   `mapstructure:"SEED_CATALOG"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	LockTTL       time.Duration `mapstructure:"BOOKING_LOCK_TTL"`
	LockWait      time.Duration `mapstructure:"BOOKING_LOCK_WAIT"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	TwilioAccountSID     string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `mapstructure:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `mapstructure:"TWILIO_WHATSAPP_NUMBER"`
	ReminderCron         string `mapstructure:"REMINDER_CRON"`
	CompletionSweepCron  string `mapstructure:"COMPLETION_SWEEP_CRON"`

	GuestAuthor       string  `mapstructure:"GUEST_AUTHOR"`
	CORSOrigins       string  `mapstructure:"CORS_ORIGINS"`
	BookingRatePerSec float64 `mapstructure:"BOOKING_RATE_PER_SEC"`
	BookingRateBurst  int     `mapstructure:"BOOKING_RATE_BURST"`

	Slots       string `mapstructure:"SLOTS"`
	LunchStart  string `mapstructure:"LUNCH_START"`
	LunchEnd    string `mapstructure:"LUNCH_END"`
	ClosingTime string `mapstructure:"CLOSING_TIME"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIME_ZONE", "Africa/Dakar")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("DB_URL", "")
	v.SetDefault("SEED_CATALOG", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BOOKING_LOCK_TTL", 10*time.Second)
	v.SetDefault("BOOKING_LOCK_WAIT", 5*time.Second)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "appointments")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("TWILIO_WHATSAPP_NUMBER", "")
	// Run daily at 9 AM
	v.SetDefault("REMINDER_CRON", "0 9 * * *")
	v.SetDefault("COMPLETION_SWEEP_CRON", "*/15 * * * *")
	v.SetDefault("GUEST_AUTHOR", "Utilisateur Invité")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:9002")
	v.SetDefault("BOOKING_RATE_PER_SEC", 1.0)
	v.SetDefault("BOOKING_RATE_BURST", 5)
	v.SetDefault("SLOTS", "09:00,09:30,10:00,10:30,11:00,11:30,14:00,14:30,15:00,15:30,16:00")
	v.SetDefault("LUNCH_START", "12:00")
	v.SetDefault("LUNCH_END", "14:00")
	v.SetDefault("CLOSING_TIME", "17:00")
}

// Load reads .env (if present), then the environment, over the defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if _, err := c.OperatingHours(); err != nil {
		return err
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// OperatingHours builds the salon schedule from the SLOTS, LUNCH_* and
// CLOSING_TIME settings.
func (c Config) OperatingHours() (availability.OperatingHours, error) {
	hours, err := availability.ParseOperatingHours(utils.SplitList(c.Slots), c.LunchStart, c.LunchEnd, c.ClosingTime)
	if err != nil {
		return availability.OperatingHours{}, fmt.Errorf("operating hours: %w", err)
	}
	return hours, nil
}

func (c Config) Location() *time.Location {
	return utils.LoadLocation(c.TimeZone)
}

func (c Config) AllowedOrigins() []string {
	return utils.SplitList(c.CORSOrigins)
}

// KafkaBrokerList is KAFKA_BROKERS split on commas; empty disables Kafka.
func (c Config) KafkaBrokerList() []string {
	return utils.SplitList(c.KafkaBrokers)
}

func (c Config) TwilioEnabled() bool {
	return strings.TrimSpace(c.TwilioAccountSID) != "" && strings.TrimSpace(c.TwilioAuthToken) != ""
}
