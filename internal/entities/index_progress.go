package entities

import (
	"time"
)

// IndexProgressID is the primary key of the only index progress row.
const IndexProgressID = 1

type IndexStatus string

const (
	IndexStatusRunning   IndexStatus = "running"
	IndexStatusCompleted IndexStatus = "completed"
	IndexStatusFailed    IndexStatus = "failed"
)

// IndexProgress tracks the most recent library index run. Each run resets it.
type IndexProgress struct {
	ID          uint        `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Status      IndexStatus `gorm:"size:20" json:"status"`
	TotalBooks  int         `json:"total_books"`
	Processed   int         `json:"processed"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	Skipped     int         `json:"skipped"`
	CurrentBook string      `gorm:"size:512" json:"current_book,omitempty"`
	Error       string      `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

func (IndexProgress) TableName() string {
	return "index_progress"
}
