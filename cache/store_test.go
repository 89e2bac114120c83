package cache

import (
	"testing"

	"github.com/octobuild/octobuild/cachekey"
	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/utils"
)

func TestStore_PutThenGet(t *testing.T) {
	root := utils.UFS.Dir(t.TempDir())
	store := NewStore(root, ModeReadWrite, 0)

	key := cachekey.Key(base.StringFingerprint("store-put-get"))
	entry := Entry{Payloads: map[PayloadTag][]byte{
		PayloadObject: []byte("obj-bytes"),
		PayloadStdout: []byte("stdout-bytes"),
	}}

	if err := store.Put(key, entry); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, hit, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !hit {
		t.Fatalf("expected cache hit after Put()")
	}
	if string(got.Payloads[PayloadObject]) != "obj-bytes" {
		t.Errorf("unexpected object payload: %q", got.Payloads[PayloadObject])
	}
}

func TestStore_MissForUnknownKey(t *testing.T) {
	root := utils.UFS.Dir(t.TempDir())
	store := NewStore(root, ModeReadWrite, 0)

	key := cachekey.Key(base.StringFingerprint("never-written"))
	_, hit, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hit {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestStore_ReadOnlyNeverWrites(t *testing.T) {
	root := utils.UFS.Dir(t.TempDir())
	store := NewStore(root, ModeReadOnly, 0)

	key := cachekey.Key(base.StringFingerprint("read-only"))
	entry := Entry{Payloads: map[PayloadTag][]byte{PayloadObject: []byte("x")}}

	if err := store.Put(key, entry); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	_, hit, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hit {
		t.Fatalf("ReadOnly store should never persist a Put()")
	}
}

func TestStore_ResetRemovesEntries(t *testing.T) {
	root := utils.UFS.Dir(t.TempDir())
	store := NewStore(root, ModeReadWrite, 0)

	key := cachekey.Key(base.StringFingerprint("to-be-reset"))
	entry := Entry{Payloads: map[PayloadTag][]byte{PayloadObject: []byte("x")}}
	if err := store.Put(key, entry); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	_, hit, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hit {
		t.Fatalf("expected a miss after Reset()")
	}
}

func TestStore_ModeNoneNeverHits(t *testing.T) {
	root := utils.UFS.Dir(t.TempDir())
	rw := NewStore(root, ModeReadWrite, 0)

	key := cachekey.Key(base.StringFingerprint("none-mode"))
	entry := Entry{Payloads: map[PayloadTag][]byte{PayloadObject: []byte("x")}}
	if err := rw.Put(key, entry); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	none := NewStore(root, ModeNone, 0)
	_, hit, err := none.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hit {
		t.Fatalf("ModeNone store should always miss")
	}
}
