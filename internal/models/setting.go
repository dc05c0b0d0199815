package models

import (
	"time"

	"gorm.io/datatypes"
)

// Well-known settings keys.
const (
	SettingKeyStatus = "status"
	SettingKeyGlobal = "global"
)

// GlobalSettingForcedTaskID is the payload key holding a dashboard assignment
// id forced by an operator.
const GlobalSettingForcedTaskID = "forced_task_id"

// Setting is a singleton configuration row. The "status" row carries the
// last-updated version marker every client compares its snapshots against;
// the "global" row carries miscellaneous app-wide configuration.
type Setting struct {
	Key         string             `gorm:"primaryKey;size:64" json:"key"`
	LastUpdated int64              `json:"last_updated"`
	Payload     datatypes.JSONMap  `json:"payload"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
