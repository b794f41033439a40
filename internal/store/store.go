// Package store persists inventories as <name>.inventory files in a save
// directory. Each file holds the non-empty slots of one inventory as JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	cp "github.com/otiai10/copy"
	"golang.org/x/sync/errgroup"

	"tradepost/internal/inventory"
)

// Ext is the save file extension.
const Ext = ".inventory"

// ErrNoSave is returned by Load when the inventory has never been saved.
var ErrNoSave = errors.New("no save")

// ErrBadName rejects inventory names that cannot be file names.
var ErrBadName = errors.New("invalid inventory name")

// Store reads and writes save files under one directory.
type Store struct {
	dir string
}

func New(dir string) *Store { return &Store{dir: dir} }

func (s *Store) Dir() string { return s.dir }

// record is the on-disk form of one inventory.
type record struct {
	Name    string      `json:"name"`
	Columns int         `json:"columns"`
	Rows    int         `json:"rows"`
	SavedAt time.Time   `json:"saved_at"`
	Slots   []slotEntry `json:"slots"`
}

type slotEntry struct {
	Slot int `json:"slot"`
	inventory.ItemStack
}

// Path returns the save file of the named inventory.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(s.dir, name+Ext), nil
}

// Exists reports whether the named inventory has a save file.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes inv to its save file, replacing it atomically.
func (s *Store) Save(inv *inventory.Inventory) error {
	path, err := s.Path(inv.Name())
	if err != nil {
		return err
	}
	rec := record{
		Name:    inv.Name(),
		Columns: inv.Columns(),
		Rows:    inv.Rows(),
		SavedAt: time.Now().UTC(),
		Slots:   []slotEntry{},
	}
	for i, st := range inv.Slots() {
		if st != nil {
			rec.Slots = append(rec.Slots, slotEntry{Slot: i, ItemStack: *st})
		}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", inv.Name(), err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: create save dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, inv.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: save %s: %w", inv.Name(), err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: save %s: %w", inv.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: save %s: %w", inv.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store: save %s: %w", inv.Name(), err)
	}
	return nil
}

// Load replaces the content of inv with its save. A missing save returns
// an error matching both ErrNoSave and fs.ErrNotExist and leaves inv as is.
func (s *Store) Load(inv *inventory.Inventory) error {
	path, err := s.Path(inv.Name())
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: load %s: %w: %w", inv.Name(), ErrNoSave, err)
	}
	if err != nil {
		return fmt.Errorf("store: load %s: %w", inv.Name(), err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("store: decode %s: %w", inv.Name(), err)
	}
	slots := make([]*inventory.ItemStack, inv.Capacity())
	for _, e := range rec.Slots {
		if inv.Valid(e.Slot) {
			st := e.ItemStack
			slots[e.Slot] = &st
		}
	}
	inv.Load(slots)
	return nil
}

// Delete removes the save files of the named inventories. Missing files are
// not an error.
func (s *Store) Delete(names ...string) error {
	var errs []error
	for _, name := range names {
		path, err := s.Path(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("store: delete %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// SaveAll writes every inventory concurrently. The inventories must not be
// mutated until SaveAll returns.
func (s *Store) SaveAll(ctx context.Context, invs ...*inventory.Inventory) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, inv := range invs {
		if inv == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.Save(inv)
		})
	}
	return g.Wait()
}

// Backup copies every save file into dst, skipping half-written temp files.
func (s *Store) Backup(dst string) error {
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	err := cp.Copy(s.dir, dst, cp.Options{
		Skip: func(info os.FileInfo, src, _ string) (bool, error) {
			return !info.IsDir() && filepath.Ext(src) == ".tmp", nil
		},
	})
	if err != nil {
		return fmt.Errorf("store: backup to %s: %w", dst, err)
	}
	return nil
}

// DefaultDir returns $XDG_DATA_HOME/tradepost/InventoryEngine, defaulting
// to ~/.local/share/tradepost/InventoryEngine.
func DefaultDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tradepost", "InventoryEngine"), nil
}
