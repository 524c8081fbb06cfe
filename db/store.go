package db

import (
	"database/sql"
)

// Store wraps the shared connection with the operations the bot needs. All
// read-modify-write sequences over queue positions are serialized by the
// lifecycle engine's lock; transactions here only keep multi-row position
// updates atomic against crashes.
type Store struct {
	db *sql.DB
}

func NewStore() *Store {
	return &Store{db: DB}
}
