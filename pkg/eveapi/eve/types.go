package eve

import "time"

// CharacterIDMap maps a requested character name to its ID. A nil ID means
// the API knows the name but reported no character for it; names the API
// did not mention at all are absent from the map.
type CharacterIDMap map[string]*int64

// EntityRef is the corporation or alliance a character currently belongs to
type EntityRef struct {
	ID        *int64     `json:"id"`
	Name      *string    `json:"name"`
	Timestamp *time.Time `json:"timestamp"`
}

// Ship is the character's active ship as reported by the API
type Ship struct {
	Name     *string `json:"name"`
	TypeID   *int64  `json:"type_id"`
	TypeName *string `json:"type_name"`
}

// HistoryEntry is one row of a character's employment history
type HistoryEntry struct {
	CorpID  int64      `json:"corp_id"`
	StartTS *time.Time `json:"start_ts"`
}

// CharacterInfo is the public (and, with a key, private) profile of a character
type CharacterInfo struct {
	ID          *int64   `json:"id"`
	Name        *string  `json:"name"`
	Race        *string  `json:"race"`
	Bloodline   *string  `json:"bloodline"`
	SecStatus   *float64 `json:"sec_status"`
	SkillPoints *int64   `json:"skillpoints"`
	Location    *string  `json:"location"`
	ISK         *float64 `json:"isk"`

	Corp     EntityRef `json:"corp"`
	Alliance EntityRef `json:"alliance"`
	Ship     Ship      `json:"ship"`

	// History is in the order the API lists it
	History []HistoryEntry `json:"history"`
}

// MemberCorp is a corporation's membership in an alliance
type MemberCorp struct {
	ID        int64      `json:"id"`
	Timestamp *time.Time `json:"timestamp"`
}

type Alliance struct {
	ID          int64                `json:"id"`
	Name        *string              `json:"name"`
	Ticker      *string              `json:"ticker"`
	ExecutorID  *int64               `json:"executor_id"`
	MemberCount *int64               `json:"member_count"`
	Timestamp   *time.Time           `json:"timestamp"`
	MemberCorps map[int64]MemberCorp `json:"member_corps"`
}

// AllianceDirectory maps alliance ID to alliance
type AllianceDirectory map[int64]Alliance
