package eveapi

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte(envelope(characterIDResult, 30*time.Minute)))
	require.NoError(t, err)

	assert.Equal(t, "2", resp.Version)
	require.NotNil(t, resp.CurrentTime)
	assert.Equal(t, time.Date(2011, 9, 20, 12, 0, 0, 0, time.UTC), *resp.CurrentTime)
	assert.Equal(t, 30*time.Minute, resp.CacheDuration())
	require.NotNil(t, resp.Result)
	assert.Equal(t, "result", resp.Result.Tag)
}

func TestParseResponseErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		resp, err := ParseResponse([]byte(envelope(`<error code="203">Authentication failure.</error>`, time.Hour)))
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 203, apiErr.Code)
		assert.False(t, apiErr.NotFound())
		require.NotNil(t, resp)
		assert.Nil(t, resp.Result)
	})

	t.Run("missing result", func(t *testing.T) {
		_, err := ParseResponse([]byte(envelope("", time.Hour)))
		assert.ErrorIs(t, err, ErrMissingResult)
	})

	t.Run("missing envelope", func(t *testing.T) {
		_, err := ParseResponse([]byte(`<html><body>maintenance</body></html>`))
		assert.ErrorIs(t, err, ErrMissingEnvelope)
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := ParseResponse([]byte(`<eveapi><result attr=></result></eveapi>`))
		assert.Error(t, err)
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		_, err := ParseResponse([]byte(`<eveapi><currentTime>yesterday</currentTime><result/></eveapi>`))
		var valueErr *ValueError
		require.True(t, errors.As(err, &valueErr))
		assert.Equal(t, "currentTime", valueErr.Name)
	})
}

func TestNamedValues(t *testing.T) {
	resp, err := ParseResponse([]byte(envelope(`<result>
    <characterName> Jita Trader </characterName>
    <skillPoints>1234567</skillPoints>
    <securityStatus>-1.25</securityStatus>
    <corporationDate>2010-04-01 06:30:00</corporationDate>
    <alliance></alliance>
    <broken>abc</broken>
  </result>`, time.Hour)))
	require.NoError(t, err)
	result := resp.Result

	require.NotNil(t, NamedValue(result, "characterName"))
	assert.Equal(t, "Jita Trader", *NamedValue(result, "characterName"))
	assert.Nil(t, NamedValue(result, "alliance"), "empty element is treated as absent")
	assert.Nil(t, NamedValue(result, "allianceID"))
	assert.Nil(t, NamedValue(nil, "anything"))

	sp, err := IntValue(result, "skillPoints")
	require.NoError(t, err)
	assert.EqualValues(t, 1234567, *sp)

	sec, err := FloatValue(result, "securityStatus")
	require.NoError(t, err)
	assert.InDelta(t, -1.25, *sec, 1e-9)

	ts, err := TSValue(result, "corporationDate")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 4, 1, 6, 30, 0, 0, time.UTC), *ts)

	missing, err := TSValue(result, "allianceDate")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = IntValue(result, "broken")
	var valueErr *ValueError
	require.True(t, errors.As(err, &valueErr))
	assert.Equal(t, "abc", valueErr.Value)
}

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("b", "2")
	a.Set("a", "1")
	b := url.Values{}
	b.Set("a", "1")
	b.Set("b", "2")

	assert.Equal(t, CacheKey("/eve/CharacterID/", a), CacheKey("eve/CharacterID", b))
	assert.Equal(t, "eve/AllianceList", CacheKey("eve/AllianceList", nil))
}

func TestMemoryCacheManager(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheManager(time.Minute)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, cache.Set(ctx, "expired", []byte("v"), 0))

	data, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), data)

	_, found, err = cache.Get(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, cache.ItemCount())
}
