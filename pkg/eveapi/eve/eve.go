// Package eve maps the /eve/ group of the EVE Online XML API onto plain Go
// records. It issues one request per operation through the API it is given
// and does no caching, retrying or error wrapping of its own: errors from the
// API are returned as-is, and responses of the wrong shape yield *ParseError.
package eve

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	pathCharacterID   = "eve/CharacterID"
	pathCharacterInfo = "eve/CharacterInfo"
	pathAllianceList  = "eve/AllianceList"
)

// API fetches a call's <result> element. *eveapi.Client implements it.
type API interface {
	Get(ctx context.Context, path string, params url.Values) (*etree.Element, error)
}

// EVE wraps the /eve/ calls of the API
type EVE struct {
	api API
}

// New returns an EVE bound to api, which must not be nil
func New(api API) *EVE {
	if api == nil {
		panic("eve: New called with nil API")
	}
	return &EVE{api: api}
}

// CharacterIDsFromNames resolves a set of character names in a single
// request. A character ID of 0 is reported by the API for names that do not
// belong to a character and maps to nil.
func (e *EVE) CharacterIDsFromNames(ctx context.Context, names []string) (CharacterIDMap, error) {
	requested := make(map[string]string, len(names))
	for _, name := range names {
		requested[strings.ToLower(name)] = name
	}

	results := make(CharacterIDMap, len(requested))
	if len(requested) == 0 {
		return results, nil
	}

	unique := make([]string, 0, len(requested))
	for _, name := range requested {
		unique = append(unique, name)
	}
	sort.Strings(unique)

	result, err := e.api.Get(ctx, pathCharacterID, url.Values{
		"names": {strings.Join(unique, ",")},
	})
	if err != nil {
		return nil, err
	}

	charRows, ok := rows(result)
	if !ok {
		return nil, &ParseError{Path: pathCharacterID, Field: "rowset", Err: ErrMissingRowset}
	}

	for _, row := range charRows {
		rawName := attr(row, "name")
		if rawName == nil {
			return nil, &ParseError{Path: pathCharacterID, Field: "name", Err: ErrMissingAttribute}
		}

		// The API may echo a name in its canonical capitalisation
		name, known := requested[strings.ToLower(*rawName)]
		if !known {
			slog.DebugContext(ctx, "Ignoring unrequested name in CharacterID response", "name", *rawName)
			continue
		}

		charID, err := attrInt(row, "characterID")
		if err != nil {
			return nil, &ParseError{Path: pathCharacterID, Field: "characterID", Err: err}
		}
		if charID != nil && *charID == 0 {
			charID = nil
		}
		results[name] = charID
	}

	return results, nil
}

// CharacterIDFromName resolves one name; nil means unknown
func (e *EVE) CharacterIDFromName(ctx context.Context, name string) (*int64, error) {
	ids, err := e.CharacterIDsFromNames(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	return ids[name], nil
}

// CharacterInfoFromID fetches a character's profile. Fields the response
// does not carry (e.g. alliance details for a character outside any
// alliance) are nil.
func (e *EVE) CharacterInfoFromID(ctx context.Context, charID int64) (*CharacterInfo, error) {
	result, err := e.api.Get(ctx, pathCharacterInfo, url.Values{
		"characterID": {strconv.FormatInt(charID, 10)},
	})
	if err != nil {
		return nil, err
	}

	info := &CharacterInfo{History: []HistoryEntry{}}
	for _, f := range characterInfoFields {
		if err := f.assign(info, result, f.name); err != nil {
			return nil, &ParseError{Path: pathCharacterInfo, Field: f.name, Err: err}
		}
	}

	historyRows, ok := rows(result)
	if !ok {
		return nil, &ParseError{Path: pathCharacterInfo, Field: "rowset", Err: ErrMissingRowset}
	}

	for _, row := range historyRows {
		corpID, err := requiredAttrInt(row, "corporationID")
		if err != nil {
			return nil, &ParseError{Path: pathCharacterInfo, Field: "corporationID", Err: err}
		}
		startTS, err := attrTS(row, "startDate")
		if err != nil {
			return nil, &ParseError{Path: pathCharacterInfo, Field: "startDate", Err: err}
		}
		info.History = append(info.History, HistoryEntry{CorpID: corpID, StartTS: startTS})
	}

	return info, nil
}

// Alliances returns every alliance in EVE with its member corporations
func (e *EVE) Alliances(ctx context.Context) (AllianceDirectory, error) {
	result, err := e.api.Get(ctx, pathAllianceList, nil)
	if err != nil {
		return nil, err
	}

	allianceRows, ok := rows(result)
	if !ok {
		return nil, &ParseError{Path: pathAllianceList, Field: "rowset", Err: ErrMissingRowset}
	}

	directory := make(AllianceDirectory, len(allianceRows))
	for _, row := range allianceRows {
		alliance, err := parseAlliance(row)
		if err != nil {
			return nil, err
		}
		directory[alliance.ID] = alliance
	}

	return directory, nil
}

func parseAlliance(row *etree.Element) (Alliance, error) {
	fail := func(field string, err error) (Alliance, error) {
		return Alliance{}, &ParseError{Path: pathAllianceList, Field: field, Err: err}
	}

	id, err := requiredAttrInt(row, "allianceID")
	if err != nil {
		return fail("allianceID", err)
	}

	alliance := Alliance{
		ID:          id,
		Name:        attr(row, "name"),
		Ticker:      attr(row, "shortName"),
		MemberCorps: map[int64]MemberCorp{},
	}
	if alliance.ExecutorID, err = attrInt(row, "executorCorpID"); err != nil {
		return fail("executorCorpID", err)
	}
	if alliance.MemberCount, err = attrInt(row, "memberCount"); err != nil {
		return fail("memberCount", err)
	}
	if alliance.Timestamp, err = attrTS(row, "startDate"); err != nil {
		return fail("startDate", err)
	}

	corpRows, ok := rows(row)
	if !ok {
		return fail("memberCorporations", ErrMissingRowset)
	}
	for _, corpRow := range corpRows {
		corpID, err := requiredAttrInt(corpRow, "corporationID")
		if err != nil {
			return fail("corporationID", err)
		}
		joined, err := attrTS(corpRow, "startDate")
		if err != nil {
			return fail("startDate", err)
		}
		alliance.MemberCorps[corpID] = MemberCorp{ID: corpID, Timestamp: joined}
	}

	return alliance, nil
}
