package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// snapshotScript reads the channel, the user, and the channel's declared
// server and section hashes in one server-side call. Permission checks run
// on every privileged request, so this trades a little Lua for a single
// round trip and a consistent point-in-time view of all four records.
var snapshotScript = redis.NewScript(`
local channel_data = redis.call('HGETALL', KEYS[1])

local user_data = {}
if KEYS[2] ~= '' then
    user_data = redis.call('HGETALL', KEYS[2])
end

local server_data = {}
local server_id = redis.call('HGET', KEYS[1], 'server')
if server_id and server_id ~= '' then
    server_data = redis.call('HGETALL', 'server:' .. server_id)
end

local section_data = {}
local section_id = redis.call('HGET', KEYS[1], 'section')
if section_id and section_id ~= '' then
    section_data = redis.call('HGETALL', 'section:' .. section_id)
end

return { channel_data, user_data, server_data, section_data }
`)

// Snapshot is a consistent view of the records permission resolution needs.
// Any of the fields may be nil when the entity is absent or not cached.
type Snapshot struct {
	Channel *ChannelRecord
	User    *UserRecord
	Server  *ServerRecord
	Section *SectionRecord
}

// FetchSnapshot retrieves the channel record, the user's role record, and
// the channel's server and section records in a single atomic round trip.
// userID may be empty, in which case the user slot resolves to nil.
func (g *Gateway) FetchSnapshot(ctx context.Context, channelID, userID string) (*Snapshot, error) {
	keys := []string{channelKey(channelID), ""}
	if userID != "" {
		keys[1] = userKey(userID)
	}

	raw, err := snapshotScript.Run(ctx, g.client, keys).Result()
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}

	parts, ok := raw.([]interface{})
	if !ok || len(parts) != 4 {
		return nil, fmt.Errorf("snapshot fetch returned unexpected reply %T", raw)
	}

	channelFields, err := replyToFieldMap(parts[0])
	if err != nil {
		return nil, err
	}
	userFields, err := replyToFieldMap(parts[1])
	if err != nil {
		return nil, err
	}
	serverFields, err := replyToFieldMap(parts[2])
	if err != nil {
		return nil, err
	}
	sectionFields, err := replyToFieldMap(parts[3])
	if err != nil {
		return nil, err
	}

	channel, err := parseChannelRecord(channelFields)
	if err != nil {
		return nil, err
	}
	section, err := parseSectionRecord(sectionFields)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Channel: channel,
		User:    parseUserRecord(userFields),
		Server:  parseServerRecord(serverFields),
		Section: section,
	}, nil
}

// replyToFieldMap converts the flat key/value array HGETALL yields inside a
// Lua reply into a field map
func replyToFieldMap(reply interface{}) (map[string]string, error) {
	items, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected hash reply %T", reply)
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("hash reply has odd length %d", len(items))
	}

	fields := make(map[string]string, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		key, ok := items[i].(string)
		if !ok {
			return nil, fmt.Errorf("unexpected hash key %T", items[i])
		}
		value, ok := items[i+1].(string)
		if !ok {
			return nil, fmt.Errorf("unexpected hash value %T", items[i+1])
		}
		fields[key] = value
	}
	return fields, nil
}
