package db

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/config"
)

var DB *sql.DB

func InitDB(cfg *config.Config) error {
	var err error

	DB, err = sql.Open("mysql", cfg.DB.DSN())
	if err != nil {
		return err
	}
	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(10)
	DB.SetConnMaxLifetime(time.Hour)
	DB.SetConnMaxIdleTime(10 * time.Minute)

	if err = DB.Ping(); err != nil {
		return err
	}
	log.Infof("database connected (%s)", cfg.DB.Database)

	return InitTables()
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
