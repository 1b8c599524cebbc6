package ephemeriscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/watermate/internal/domain/solar"
)

// ValkeyStore persists ephemeris entries in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "ephemeris"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (solar.RawEphemeris, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return solar.RawEphemeris{}, false, nil
		}
		return solar.RawEphemeris{}, false, err
	}
	var raw solar.RawEphemeris
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return solar.RawEphemeris{}, false, err
	}
	return raw, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, key string, raw solar.RawEphemeris, ttl time.Duration) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

var _ solar.EphemerisStore = (*ValkeyStore)(nil)
