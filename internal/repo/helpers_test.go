package repo

import (
	"database/sql"
	"time"
)

var sampleTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func errNoRows() error { return sql.ErrNoRows }
