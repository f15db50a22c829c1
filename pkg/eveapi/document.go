package eveapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// TimestampLayout is the format of every timestamp in the XML API, always UTC
const TimestampLayout = "2006-01-02 15:04:05"

// Response is a parsed <eveapi> envelope
type Response struct {
	Version     string
	CurrentTime *time.Time
	CachedUntil *time.Time
	Result      *etree.Element
}

// CacheDuration is how long the server allows the response to be reused.
// It is measured against the server clock so local clock skew does not matter.
func (r *Response) CacheDuration() time.Duration {
	if r.CurrentTime == nil || r.CachedUntil == nil {
		return 0
	}
	d := r.CachedUntil.Sub(*r.CurrentTime)
	if d < 0 {
		return 0
	}
	return d
}

// ParseResponse parses a raw API response body. When the envelope contains an
// <error> element the parsed envelope is returned together with an *APIError.
func ParseResponse(data []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}

	root := doc.SelectElement("eveapi")
	if root == nil {
		return nil, ErrMissingEnvelope
	}

	resp := &Response{Version: root.SelectAttrValue("version", "")}

	var err error
	if resp.CurrentTime, err = TSValue(root, "currentTime"); err != nil {
		return nil, err
	}
	if resp.CachedUntil, err = TSValue(root, "cachedUntil"); err != nil {
		return nil, err
	}

	if errElem := root.SelectElement("error"); errElem != nil {
		code, _ := strconv.Atoi(errElem.SelectAttrValue("code", "0"))
		return resp, &APIError{
			Code:    code,
			Message: strings.TrimSpace(errElem.Text()),
		}
	}

	resp.Result = root.SelectElement("result")
	if resp.Result == nil {
		return nil, ErrMissingResult
	}

	return resp, nil
}

// ParseTS parses an API timestamp as UTC
func ParseTS(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, strings.TrimSpace(value), time.UTC)
}

// FormatTS renders t in the API timestamp format
func FormatTS(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NamedValue returns the text of elem's child called name, or nil when the
// child is absent or empty.
func NamedValue(elem *etree.Element, name string) *string {
	if elem == nil {
		return nil
	}
	child := elem.SelectElement(name)
	if child == nil {
		return nil
	}
	text := strings.TrimSpace(child.Text())
	if text == "" {
		return nil
	}
	return &text
}

// IntValue is NamedValue coerced to an integer
func IntValue(elem *etree.Element, name string) (*int64, error) {
	raw := NamedValue(elem, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, &ValueError{Name: name, Value: *raw, Err: err}
	}
	return &v, nil
}

// FloatValue is NamedValue coerced to a float
func FloatValue(elem *etree.Element, name string) (*float64, error) {
	raw := NamedValue(elem, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, &ValueError{Name: name, Value: *raw, Err: err}
	}
	return &v, nil
}

// TSValue is NamedValue parsed as an API timestamp
func TSValue(elem *etree.Element, name string) (*time.Time, error) {
	raw := NamedValue(elem, name)
	if raw == nil {
		return nil, nil
	}
	ts, err := ParseTS(*raw)
	if err != nil {
		return nil, &ValueError{Name: name, Value: *raw, Err: err}
	}
	return &ts, nil
}
