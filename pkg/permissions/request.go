package permissions

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Context extraction: privileged requests carry their channel/server id in
// the URL path or, failing that, in the request body. A request with no
// relevant id in either place is not an error; the resolver just proceeds
// with whatever context it has.

var (
	channelPathPattern = regexp.MustCompile(`^/channels/(.{24})`)
	serverPathPattern  = regexp.MustCompile(`^/servers/(.{24})`)
)

func channelIDFromRequest(r *http.Request, logger *logrus.Logger) *string {
	if m := channelPathPattern.FindStringSubmatch(r.URL.Path); m != nil {
		return &m[1]
	}
	return fieldFromRequestBody(r, []string{"channel", "channel_id"}, logger)
}

func serverIDFromRequest(r *http.Request, logger *logrus.Logger) *string {
	if m := serverPathPattern.FindStringSubmatch(r.URL.Path); m != nil {
		return &m[1]
	}
	return fieldFromRequestBody(r, []string{"server", "server_id"}, logger)
}

// fieldFromRequestBody returns the first non-empty string value among the
// given fields in the request's JSON body. The body is restored afterwards
// so downstream handlers can still read it. Unparsable or empty bodies
// yield nil rather than an error.
func fieldFromRequestBody(r *http.Request, fields []string, logger *logrus.Logger) *string {
	if r.Body == nil {
		return nil
	}

	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		logger.WithError(err).Warn("issue decoding json body")
		return nil
	}

	for _, field := range fields {
		if value, ok := body[field].(string); ok && value != "" {
			return &value
		}
	}
	return nil
}
