package models

import (
	"time"
)

// AllianceSnapshot is the stored copy of one alliance from the last sync
type AllianceSnapshot struct {
	AllianceID  int64                `bson:"alliance_id" json:"alliance_id"`
	Name        *string              `bson:"name,omitempty" json:"name"`
	Ticker      *string              `bson:"ticker,omitempty" json:"ticker"`
	ExecutorID  *int64               `bson:"executor_id,omitempty" json:"executor_id"`
	MemberCount *int64               `bson:"member_count,omitempty" json:"member_count"`
	StartDate   *time.Time           `bson:"start_date,omitempty" json:"start_date"`
	MemberCorps []MemberCorpSnapshot `bson:"member_corps" json:"member_corps"`

	// SyncID is the run that last wrote this document
	SyncID    string    `bson:"sync_id" json:"sync_id"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type MemberCorpSnapshot struct {
	CorporationID int64      `bson:"corporation_id" json:"corporation_id"`
	StartDate     *time.Time `bson:"start_date,omitempty" json:"start_date"`
}

// SyncRun records one refresh of the alliance snapshot
type SyncRun struct {
	ID            string     `bson:"_id" json:"id"`
	Trigger       string     `bson:"trigger" json:"trigger"`
	Status        string     `bson:"status" json:"status"`
	StartedAt     time.Time  `bson:"started_at" json:"started_at"`
	FinishedAt    *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	AllianceCount int        `bson:"alliance_count" json:"alliance_count"`
	Removed       int64      `bson:"removed" json:"removed"`
	Error         string     `bson:"error,omitempty" json:"error,omitempty"`
}

// Sync run statuses
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// Sync run triggers
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Constants for collection names
const (
	AllianceCollection = "eve_alliances"
	SyncRunCollection  = "eve_alliance_syncs"
)
