/*
 * file: store.go
 * package: directory
 * description:
 *     Persists the directory's name -> DirectoryEntry mapping as a JSON
 *     list of records under the single key "games" (§6: "Persisted state").
 *     Loading is coordinated with golang.org/x/sync/singleflight so that
 *     concurrent first-requests collapse into one storage read
 *     (§4.4: "at-most-one loader").
 */
package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/juan10024/roomrelay/internal/core/domain"
)

const gamesKey = "games"

// kvGetter/kvPutter are the two primitives the store needs from
// kvstore.Store, kept as a narrow interface so tests can fake it.
type kvGetter interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

type kvPutter interface {
	Put(ctx context.Context, key string, value []byte) error
}

type kv interface {
	kvGetter
	kvPutter
}

// record is one [name, entry] pair, in persisted order.
type record struct {
	Name  string               `json:"name"`
	Entry domain.DirectoryEntry `json:"entry"`
}

// GormDirectoryStore implements ports.DirectoryStore atop a kv.Store.
type GormDirectoryStore struct {
	kv    kv
	group singleflight.Group
}

func NewGormDirectoryStore(kv kv) *GormDirectoryStore {
	return &GormDirectoryStore{kv: kv}
}

// Load returns the persisted games map. Concurrent callers share a single
// storage read; a call made after that read has finished reads again.
func (s *GormDirectoryStore) Load(ctx context.Context) (map[string]domain.DirectoryEntry, error) {
	v, err, _ := s.group.Do(gamesKey, func() (interface{}, error) {
		raw, ok, err := s.kv.Get(ctx, gamesKey)
		if err != nil {
			return nil, fmt.Errorf("directory store: load: %w", err)
		}
		if !ok {
			return map[string]domain.DirectoryEntry{}, nil
		}

		var records []record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("directory store: decode: %w", err)
		}

		out := make(map[string]domain.DirectoryEntry, len(records))
		for _, r := range records {
			out[r.Name] = r.Entry
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]domain.DirectoryEntry), nil
}

// Save overwrites the persisted games list with entries. List ordering on
// disk is incidental; GET /list.bin always re-sorts by UpdatedAt at serve
// time (§4.4), so persistence only needs to round-trip the set faithfully.
func (s *GormDirectoryStore) Save(ctx context.Context, entries map[string]domain.DirectoryEntry) error {
	records := make([]record, 0, len(entries))
	for name, entry := range entries {
		records = append(records, record{Name: name, Entry: entry})
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("directory store: encode: %w", err)
	}
	if err := s.kv.Put(ctx, gamesKey, raw); err != nil {
		return fmt.Errorf("directory store: save: %w", err)
	}
	return nil
}
