package eve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-evelink/pkg/eveapi"

	"github.com/beevik/etree"
)

var (
	// ErrMissingRowset means a row-group the response must contain was absent
	ErrMissingRowset = errors.New("missing rowset")
	// ErrMissingAttribute means a row lacked an attribute it is keyed by
	ErrMissingAttribute = errors.New("missing attribute")
)

// ParseError is returned when a response does not have the expected shape
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("eve: %s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// characterField binds one child element of a CharacterInfo result to its
// destination in the record.
type characterField struct {
	name   string
	assign func(info *CharacterInfo, result *etree.Element, name string) error
}

func field[T any](coerce func(*etree.Element, string) (*T, error), dest func(*CharacterInfo) **T) func(*CharacterInfo, *etree.Element, string) error {
	return func(info *CharacterInfo, result *etree.Element, name string) error {
		v, err := coerce(result, name)
		if err != nil {
			return err
		}
		*dest(info) = v
		return nil
	}
}

func stringValue(elem *etree.Element, name string) (*string, error) {
	return eveapi.NamedValue(elem, name), nil
}

var characterInfoFields = []characterField{
	{"characterID", field(eveapi.IntValue, func(c *CharacterInfo) **int64 { return &c.ID })},
	{"characterName", field(stringValue, func(c *CharacterInfo) **string { return &c.Name })},
	{"race", field(stringValue, func(c *CharacterInfo) **string { return &c.Race })},
	{"bloodline", field(stringValue, func(c *CharacterInfo) **string { return &c.Bloodline })},
	{"securityStatus", field(eveapi.FloatValue, func(c *CharacterInfo) **float64 { return &c.SecStatus })},
	{"skillPoints", field(eveapi.IntValue, func(c *CharacterInfo) **int64 { return &c.SkillPoints })},
	{"lastKnownLocation", field(stringValue, func(c *CharacterInfo) **string { return &c.Location })},
	{"accountBalance", field(eveapi.FloatValue, func(c *CharacterInfo) **float64 { return &c.ISK })},

	{"corporationID", field(eveapi.IntValue, func(c *CharacterInfo) **int64 { return &c.Corp.ID })},
	{"corporation", field(stringValue, func(c *CharacterInfo) **string { return &c.Corp.Name })},
	{"corporationDate", field(eveapi.TSValue, func(c *CharacterInfo) **time.Time { return &c.Corp.Timestamp })},

	{"allianceID", field(eveapi.IntValue, func(c *CharacterInfo) **int64 { return &c.Alliance.ID })},
	{"alliance", field(stringValue, func(c *CharacterInfo) **string { return &c.Alliance.Name })},
	{"allianceDate", field(eveapi.TSValue, func(c *CharacterInfo) **time.Time { return &c.Alliance.Timestamp })},

	{"shipName", field(stringValue, func(c *CharacterInfo) **string { return &c.Ship.Name })},
	{"shipTypeID", field(eveapi.IntValue, func(c *CharacterInfo) **int64 { return &c.Ship.TypeID })},
	{"shipTypeName", field(stringValue, func(c *CharacterInfo) **string { return &c.Ship.TypeName })},
}

// attr returns a row attribute, treating an empty value as absent
func attr(row *etree.Element, name string) *string {
	a := row.SelectAttr(name)
	if a == nil {
		return nil
	}
	v := strings.TrimSpace(a.Value)
	if v == "" {
		return nil
	}
	return &v
}

func attrInt(row *etree.Element, name string) (*int64, error) {
	raw := attr(row, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, &eveapi.ValueError{Name: name, Value: *raw, Err: err}
	}
	return &v, nil
}

func requiredAttrInt(row *etree.Element, name string) (int64, error) {
	v, err := attrInt(row, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, ErrMissingAttribute
	}
	return *v, nil
}

func attrTS(row *etree.Element, name string) (*time.Time, error) {
	raw := attr(row, name)
	if raw == nil {
		return nil, nil
	}
	ts, err := eveapi.ParseTS(*raw)
	if err != nil {
		return nil, &eveapi.ValueError{Name: name, Value: *raw, Err: err}
	}
	return &ts, nil
}

// rows returns the rows of elem's first rowset
func rows(elem *etree.Element) ([]*etree.Element, bool) {
	rowset := elem.SelectElement("rowset")
	if rowset == nil {
		return nil, false
	}
	return rowset.SelectElements("row"), true
}
