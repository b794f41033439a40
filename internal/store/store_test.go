package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tradepost/internal/inventory"
)

func tonic(qty int) inventory.ItemStack {
	return inventory.ItemStack{Item: "tonic", Quantity: qty, MaxStack: 10, Price: 15}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	inv := inventory.New("crate", 3, 1, nil)
	inv.Put(0, tonic(4))
	inv.Put(2, inventory.ItemStack{Item: "blade", Quantity: 1, MaxStack: 1, Price: 120})

	if err := s.Save(inv); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists("crate") {
		t.Fatal("save file should exist")
	}

	back := inventory.New("crate", 3, 1, nil)
	if err := s.Load(back); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for slot := range inv.Capacity() {
		want, _ := inv.At(slot)
		got, _ := back.At(slot)
		if got != want {
			t.Errorf("slot %d: got %+v; want %+v", slot, got, want)
		}
	}
}

func TestLoadPublishesRedraw(t *testing.T) {
	s := New(t.TempDir())
	inv := inventory.New("crate", 2, 1, nil)
	inv.Put(1, tonic(2))
	if err := s.Save(inv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	bus := inventory.NewBus()
	var kinds []inventory.EventKind
	bus.Subscribe("crate", func(e inventory.Event) { kinds = append(kinds, e.Kind) })
	back := inventory.New("crate", 2, 1, bus)
	if err := s.Load(back); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(kinds) != 1 || kinds[0] != inventory.Redraw {
		t.Fatalf("expected a single Redraw, got %v", kinds)
	}
}

func TestLoadMissingSave(t *testing.T) {
	s := New(t.TempDir())
	inv := inventory.New("never-saved", 2, 1, nil)
	inv.Put(0, tonic(1))

	err := s.Load(inv)
	if !errors.Is(err, ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in the chain, got %v", err)
	}
	if _, ok := inv.At(0); !ok {
		t.Fatal("a missing save must not touch the inventory")
	}
}

func TestLoadDropsSlotsPastCapacity(t *testing.T) {
	s := New(t.TempDir())
	big := inventory.New("crate", 4, 1, nil)
	big.Put(0, tonic(1))
	big.Put(3, tonic(2))
	if err := s.Save(big); err != nil {
		t.Fatalf("Save: %v", err)
	}

	small := inventory.New("crate", 2, 1, nil)
	if err := s.Load(small); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := small.Count("tonic"); got != 1 {
		t.Fatalf("expected only slot 0 to survive, got %d tonics", got)
	}
}

func TestLoadCorruptSave(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.WriteFile(filepath.Join(dir, "crate"+Ext), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := s.Load(inventory.New("crate", 1, 1, nil))
	if err == nil || errors.Is(err, ErrNoSave) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestPathRejectsSeparators(t *testing.T) {
	s := New(t.TempDir())
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		if _, err := s.Path(name); !errors.Is(err, ErrBadName) {
			t.Errorf("Path(%q): expected ErrBadName, got %v", name, err)
		}
	}
	p, err := s.Path("vendor-1")
	if err != nil || !strings.HasSuffix(p, "vendor-1.inventory") {
		t.Errorf("Path(vendor-1) = %q, %v", p, err)
	}
}

func TestDeleteRemovesOnlyNamedSaves(t *testing.T) {
	s := New(t.TempDir())
	for _, name := range []string{"smith", "smith-rollback", "crate"} {
		if err := s.Save(inventory.New(name, 1, 1, nil)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	if err := s.Delete("smith", "smith-rollback", "ghost"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("smith") || s.Exists("smith-rollback") {
		t.Error("deleted saves should be gone")
	}
	if !s.Exists("crate") {
		t.Error("unrelated save should survive")
	}
}

func TestSaveAllWritesEveryInventory(t *testing.T) {
	s := New(t.TempDir())
	var invs []*inventory.Inventory
	for _, name := range []string{"main", "vendor", "vendor-rollback", "crate"} {
		inv := inventory.New(name, 2, 1, nil)
		inv.Put(0, tonic(len(name)%10+1))
		invs = append(invs, inv)
	}
	if err := s.SaveAll(context.Background(), append(invs, nil)...); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	for _, inv := range invs {
		if !s.Exists(inv.Name()) {
			t.Errorf("%s was not saved", inv.Name())
		}
	}
}

func TestSaveAllCancelled(t *testing.T) {
	s := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.SaveAll(ctx, inventory.New("main", 1, 1, nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackupCopiesSaves(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "saves"))
	if err := s.Save(inventory.New("crate", 1, 1, nil)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "crate.123.tmp"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "backup")
	if err := s.Backup(dst); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "crate"+Ext)); err != nil {
		t.Errorf("save not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "crate.123.tmp")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("temp file should be skipped, stat err = %v", err)
	}
}

func TestBackupWithoutSaves(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	if err := s.Backup(t.TempDir()); err != nil {
		t.Fatalf("backing up nothing should succeed, got %v", err)
	}
}

func TestDefaultDirXDGEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir returned error: %v", err)
	}
	want := filepath.Join(tmp, "tradepost", "InventoryEngine")
	if dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}
}

func TestDefaultDirFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := DefaultDir()
	if err != nil {
		t.Skip("skipping: no user home directory available in test environment")
	}
	suffix := filepath.Join(".local", "share", "tradepost", "InventoryEngine")
	if !strings.HasSuffix(dir, suffix) {
		t.Errorf("dir %q does not end with %q", dir, suffix)
	}
}
