package db

import (
	log "github.com/sirupsen/logrus"
)

func InitTables() error {
	tables := []string{
		// participant queue; position is 0-based and dense
		`CREATE TABLE IF NOT EXISTS user_queue (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			user_id BIGINT NOT NULL,
			username VARCHAR(64) UNIQUE,
			display_name VARCHAR(128),
			position INT NOT NULL,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		// at most one row per queue entry; next_reminder_at is reserved
		`CREATE TABLE IF NOT EXISTS active_reminders (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			queue_id BIGINT,
			user_id BIGINT NOT NULL,
			username VARCHAR(64),
			reminder_count INT DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_reminded_at DATETIME,
			next_reminder_at DATETIME,
			INDEX idx_queue_id (queue_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		// append-only audit log
		`CREATE TABLE IF NOT EXISTS reminder_history (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			user_id BIGINT NOT NULL,
			action VARCHAR(32) NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		// one-shot latch: any row present means the next dispatch is skipped
		`CREATE TABLE IF NOT EXISTS skip_week (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		// singleton reminder schedule
		`CREATE TABLE IF NOT EXISTS schedule (
			id TINYINT PRIMARY KEY,
			day_of_week INT NOT NULL,
			hour INT NOT NULL,
			minute INT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		// singleton auto-pop schedule
		`CREATE TABLE IF NOT EXISTS autopop_schedule (
			id TINYINT PRIMARY KEY,
			day_of_week INT NOT NULL,
			hour INT NOT NULL,
			minute INT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		// singleton reminder target group
		`CREATE TABLE IF NOT EXISTS group_chat (
			id TINYINT PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	log.Info("database tables initialized")
	return nil
}
