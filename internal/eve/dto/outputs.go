package dto

import (
	"time"

	"go-evelink/internal/eve/models"
	"go-evelink/pkg/eveapi/eve"
)

// CharacterIDsOutput represents the name to ID map response (Huma wrapper)
type CharacterIDsOutput struct {
	Body eve.CharacterIDMap `json:"body"`
}

// CharacterIDResult represents a single resolved name
type CharacterIDResult struct {
	Name        string `json:"name" doc:"Name as requested"`
	CharacterID *int64 `json:"character_id" doc:"Character ID, null when the name is not a character"`
}

// CharacterIDOutput represents the single name response (Huma wrapper)
type CharacterIDOutput struct {
	Body CharacterIDResult `json:"body"`
}

// CharacterInfoOutput represents the character profile response (Huma wrapper)
type CharacterInfoOutput struct {
	Body eve.CharacterInfo `json:"body"`
}

// AllianceDirectoryOutput represents the full alliance list response (Huma wrapper)
type AllianceDirectoryOutput struct {
	Body eve.AllianceDirectory `json:"body"`
}

// AllianceSnapshotOutput represents a stored alliance (Huma wrapper)
type AllianceSnapshotOutput struct {
	Body models.AllianceSnapshot `json:"body"`
}

// SyncResult summarises one alliance sync run
type SyncResult struct {
	SyncID        string     `json:"sync_id" doc:"Run identifier"`
	Status        string     `json:"status" enum:"running,completed,failed" doc:"Run status"`
	AllianceCount int        `json:"alliance_count" doc:"Alliances written"`
	Removed       int64      `json:"removed" doc:"Alliances no longer listed and removed"`
	StartedAt     time.Time  `json:"started_at" format:"date-time"`
	FinishedAt    *time.Time `json:"finished_at,omitempty" format:"date-time"`
	Error         string     `json:"error,omitempty"`
}

// SyncOutput represents the sync trigger response (Huma wrapper)
type SyncOutput struct {
	Body SyncResult `json:"body"`
}

// StatusOutput represents the module status response
type StatusOutput struct {
	Body EveStatusResponse `json:"body"`
}

// EveStatusResponse represents the actual status response data
type EveStatusResponse struct {
	Module       string               `json:"module" description:"Module name"`
	Status       string               `json:"status" enum:"healthy,degraded,unhealthy" description:"Module health status"`
	Message      string               `json:"message,omitempty" description:"Optional status message or error details"`
	Dependencies *EveDependencyStatus `json:"dependencies,omitempty" description:"Status of module dependencies"`
	LastSync     *SyncResult          `json:"last_sync,omitempty" description:"Most recent alliance sync run"`
	LastChecked  string               `json:"last_checked" description:"Timestamp of last health check"`
}

// EveDependencyStatus represents the status of the module's dependencies
type EveDependencyStatus struct {
	Database        string `json:"database" description:"MongoDB connection status"`
	CacheBackend    string `json:"cache_backend" description:"Where API responses are cached"`
	StoredAlliances int64  `json:"stored_alliances" description:"Alliances in the snapshot"`
}
