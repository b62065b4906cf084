package schema

import "time"

// BlockCursor tracks the last processed block per network. Advanced on
// every applied event, so restarts can resume from known progress.
type BlockCursor struct {
	Network     string    `gorm:"primaryKey;type:text"`
	BlockNumber uint64    `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (BlockCursor) TableName() string {
	return "block_cursors"
}
