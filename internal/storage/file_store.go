package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ammi749/gamekeys/internal/domain"
)

const (
	cartFile    = "cart.json"
	tokensFile  = "tokens.json"
	pendingFile = "pending_order"
)

// FileStore keeps client state as files under a state directory. It is the
// default backend for the CLI.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) LoadCart(_ context.Context) (domain.Cart, error) {
	var cart domain.Cart
	if err := f.readJSON(cartFile, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (f *FileStore) SaveCart(_ context.Context, cart domain.Cart) error {
	return f.writeJSON(cartFile, cart)
}

func (f *FileStore) LoadTokens(_ context.Context) (domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := f.readJSON(tokensFile, &pair); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

func (f *FileStore) SaveTokens(_ context.Context, pair domain.TokenPair) error {
	return f.writeJSON(tokensFile, pair)
}

func (f *FileStore) ClearTokens(_ context.Context) error {
	return f.remove(tokensFile)
}

func (f *FileStore) PendingOrder(_ context.Context) (int64, error) {
	data, err := os.ReadFile(f.path(pendingFile))
	if errors.Is(err, os.ErrNotExist) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read pending order: %w", err)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse pending order: %w", err)
	}
	return id, nil
}

func (f *FileStore) SetPendingOrder(_ context.Context, orderID int64) error {
	return f.write(pendingFile, []byte(strconv.FormatInt(orderID, 10)))
}

func (f *FileStore) ClearPendingOrder(_ context.Context) error {
	return f.remove(pendingFile)
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *FileStore) readJSON(name string, out any) error {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return f.write(name, data)
}

// write replaces the file through a rename so a crash mid-write cannot leave
// a half-written payload behind.
func (f *FileStore) write(name string, data []byte) error {
	tmp := f.path(name + ".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, f.path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) remove(name string) error {
	err := os.Remove(f.path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
