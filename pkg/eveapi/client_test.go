package eveapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const characterIDResult = `<result>
    <rowset name="characters" key="characterID" columns="name,characterID">
      <row name="CCP Garthagk" characterID="797400947" />
    </rowset>
  </result>`

func envelope(result string, cacheFor time.Duration) string {
	now := time.Date(2011, 9, 20, 12, 0, 0, 0, time.UTC)
	return fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8'?>
<eveapi version="2">
  <currentTime>%s</currentTime>
  %s
  <cachedUntil>%s</cachedUntil>
</eveapi>`, FormatTS(now), result, FormatTS(now.Add(cacheFor)))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	t.Setenv("ENABLE_TELEMETRY", "false")

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []Option{
		WithBaseURL(server.URL),
		WithUserAgent("evelink-test"),
		WithCacheManager(NewMemoryCacheManager(time.Minute)),
		WithRetryClient(NewDefaultRetryClient(server.Client(), time.Millisecond)),
	}
	return NewClient(append(base, opts...)...)
}

func TestClientGetPostsFormAndReturnsResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/eve/CharacterID.xml.aspx", r.URL.Path)
		assert.Equal(t, "evelink-test", r.Header.Get("User-Agent"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "CCP Garthagk,CCP Zulu", r.PostForm.Get("names"))

		w.Write([]byte(envelope(characterIDResult, time.Hour)))
	})

	result, err := client.Get(context.Background(), "/eve/CharacterID", url.Values{"names": {"CCP Garthagk,CCP Zulu"}})
	require.NoError(t, err)
	require.NotNil(t, result)

	rows := result.SelectElement("rowset").SelectElements("row")
	require.Len(t, rows, 1)
	assert.Equal(t, "797400947", rows[0].SelectAttrValue("characterID", ""))
}

func TestClientCachesUntilCachedUntil(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(envelope(characterIDResult, time.Hour)))
	})

	params := url.Values{"names": {"CCP Garthagk"}}
	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), "eve/CharacterID", params)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	// different params are a different cache entry
	_, err := client.Get(context.Background(), "eve/CharacterID", url.Values{"names": {"CCP Zulu"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClientSkipsCacheForExpiredResponses(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(envelope(characterIDResult, 0)))
	})

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "eve/CharacterID", nil)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClientReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(envelope(`<error code="522">Failed getting character information.</error>`, time.Hour)))
	})

	_, err := client.Get(context.Background(), "eve/CharacterInfo", url.Values{"characterID": {"1"}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 522, apiErr.Code)
	assert.Equal(t, "Failed getting character information.", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.True(t, apiErr.NotFound())
}

func TestClientReturnsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), "eve/Nope", nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "eve/Nope", statusErr.Path)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("characterID"), "body must be replayed on retries")

		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(envelope(`<result><characterID>42</characterID></result>`, time.Hour)))
	}, WithMaxRetries(3))

	result, err := client.Get(context.Background(), "eve/CharacterInfo", url.Values{"characterID": {"42"}})
	require.NoError(t, err)
	assert.Equal(t, "42", *NamedValue(result, "characterID"))
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithMaxRetries(1))

	_, err := client.Get(context.Background(), "eve/AllianceList", nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClientHonoursContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetryClient(NewDefaultRetryClient(http.DefaultClient, time.Hour)), WithMaxRetries(5))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "eve/AllianceList", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientReportsCacheBackend(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, "memory", client.CacheBackend())
}
