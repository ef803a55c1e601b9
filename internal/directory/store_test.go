/*
 * file: store_test.go
 * package: directory
 * description:
 *     GormDirectoryStore round-trips entries through a fake kv, and the
 *     Directory actor applies upsert/remove/snapshot against it.
 */
package directory

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/juan10024/roomrelay/internal/core/domain"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string][]byte)} }

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func TestStoreRoundTripsEntries(t *testing.T) {
	store := NewGormDirectoryStore(newFakeKV())
	ctx := context.Background()

	entries := map[string]domain.DirectoryEntry{
		"room1": {Name: "room1", Type: 0, SlotsUsed: 1, SlotsTotal: 4},
	}
	require.NoError(t, store.Save(ctx, entries))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestStoreLoadEmptyWhenAbsent(t *testing.T) {
	store := NewGormDirectoryStore(newFakeKV())
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDirectoryActorUpsertAndSnapshot(t *testing.T) {
	store := NewGormDirectoryStore(newFakeKV())
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	dir := New(store, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dir.Run(ctx)

	require.NoError(t, dir.Upsert(ctx, domain.DirectoryEntry{Name: "room1", SlotsUsed: 1, SlotsTotal: 4}))
	require.NoError(t, dir.Upsert(ctx, domain.DirectoryEntry{Name: "room2", SlotsUsed: 2, SlotsTotal: 4}))

	snap := dir.Snapshot(ctx)
	require.Len(t, snap, 2)

	require.NoError(t, dir.Remove(ctx, "room1"))
	snap = dir.Snapshot(ctx)
	require.Len(t, snap, 1)
	require.Equal(t, "room2", snap[0].Name)
}
