package permissions

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChannelID = "64f0c5e4a1b2c3d4e5f60718"
	testServerID  = "64f0c5e4a1b2c3d4e5f60719"
)

func TestChannelIDFromRequestPath(t *testing.T) {
	logger := logrus.New()

	r := httptest.NewRequest("GET", "/channels/"+testChannelID+"/messages", nil)
	got := channelIDFromRequest(r, logger)
	require.NotNil(t, got)
	assert.Equal(t, testChannelID, *got)

	// Prefix match only: the id must sit directly under /channels/.
	r = httptest.NewRequest("GET", "/api/channels/"+testChannelID, nil)
	assert.Nil(t, channelIDFromRequest(r, logger))

	// Short ids do not match.
	r = httptest.NewRequest("GET", "/channels/short", nil)
	assert.Nil(t, channelIDFromRequest(r, logger))
}

func TestChannelIDFromRequestBody(t *testing.T) {
	logger := logrus.New()

	r := httptest.NewRequest("POST", "/messages", strings.NewReader(`{"channel": "`+testChannelID+`"}`))
	got := channelIDFromRequest(r, logger)
	require.NotNil(t, got)
	assert.Equal(t, testChannelID, *got)

	// channel_id is the fallback field.
	r = httptest.NewRequest("POST", "/messages", strings.NewReader(`{"channel_id": "`+testChannelID+`"}`))
	got = channelIDFromRequest(r, logger)
	require.NotNil(t, got)
	assert.Equal(t, testChannelID, *got)

	// First present field wins.
	r = httptest.NewRequest("POST", "/messages", strings.NewReader(`{"channel": "a123456789012345678901234", "channel_id": "b"}`))
	got = channelIDFromRequest(r, logger)
	require.NotNil(t, got)
	assert.Equal(t, "a123456789012345678901234", *got)
}

func TestServerIDFromRequest(t *testing.T) {
	logger := logrus.New()

	r := httptest.NewRequest("GET", "/servers/"+testServerID+"/members", nil)
	got := serverIDFromRequest(r, logger)
	require.NotNil(t, got)
	assert.Equal(t, testServerID, *got)

	r = httptest.NewRequest("POST", "/roles", strings.NewReader(`{"server": "`+testServerID+`"}`))
	got = serverIDFromRequest(r, logger)
	require.NotNil(t, got)
	assert.Equal(t, testServerID, *got)
}

func TestRequestBodyEdgeCases(t *testing.T) {
	logger := logrus.New()

	// Malformed bodies are not errors, just "no id found".
	r := httptest.NewRequest("POST", "/messages", strings.NewReader(`{not json`))
	assert.Nil(t, channelIDFromRequest(r, logger))

	// Empty body.
	r = httptest.NewRequest("POST", "/messages", strings.NewReader(""))
	assert.Nil(t, channelIDFromRequest(r, logger))

	// Non-object JSON.
	r = httptest.NewRequest("POST", "/messages", strings.NewReader(`["list"]`))
	assert.Nil(t, channelIDFromRequest(r, logger))

	// Non-string field value.
	r = httptest.NewRequest("POST", "/messages", strings.NewReader(`{"channel": 42}`))
	assert.Nil(t, channelIDFromRequest(r, logger))

	// Empty string does not count as an id.
	r = httptest.NewRequest("POST", "/messages", strings.NewReader(`{"channel": ""}`))
	assert.Nil(t, channelIDFromRequest(r, logger))
}

func TestRequestBodyIsRestored(t *testing.T) {
	logger := logrus.New()
	body := `{"channel": "` + testChannelID + `", "content": "hello"}`

	r := httptest.NewRequest("POST", "/messages", bytes.NewBufferString(body))
	require.NotNil(t, channelIDFromRequest(r, logger))

	// Downstream handlers must still be able to read the body.
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}
