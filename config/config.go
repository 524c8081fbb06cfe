package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram Bot
	BotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Timezone for both schedules (IANA name)
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// Privileged user ids, comma-separated. Group admins are always privileged too.
	AdminIDs []int64 `env:"ADMIN_USER_IDS"`

	DB DatabaseConfig `envPrefix:"DB_"`

	// Default schedules (day 0=Monday .. 6=Sunday), used only until a
	// schedule has been persisted via /setschedule or /setautopop.
	ReminderDay    int `env:"REMINDER_SCHEDULE_DAY_OF_WEEK" envDefault:"1"`
	ReminderHour   int `env:"REMINDER_SCHEDULE_HOUR" envDefault:"9"`
	ReminderMinute int `env:"REMINDER_SCHEDULE_MINUTE" envDefault:"0"`
	AutoPopDay     int `env:"AUTOPOP_SCHEDULE_DAY_OF_WEEK" envDefault:"0"`
	AutoPopHour    int `env:"AUTOPOP_SCHEDULE_HOUR" envDefault:"18"`
	AutoPopMinute  int `env:"AUTOPOP_SCHEDULE_MINUTE" envDefault:"0"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD"`
	Database string `env:"NAME" envDefault:"reminder_bot"`
}

func (dc DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dc.User, dc.Password, dc.Host, dc.Port, dc.Database)
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
