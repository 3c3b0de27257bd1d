package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Snapshot is one whole-list payload stored under a well-known key.
type Snapshot struct {
	Key       string         `gorm:"column:snapshot_key;type:varchar(64);primaryKey" json:"key"`
	Payload   datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Snapshot) TableName() string {
	return "CertificateSnapshots"
}
