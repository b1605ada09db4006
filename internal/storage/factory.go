package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by NewStore.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

var ErrUnsupportedKind = errors.New("unsupported store backend")

// NewStore opens the backend named by kind. An empty kind selects memory;
// sqlitePath is only consulted by the sqlite backend.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %q (want %s|%s)", ErrUnsupportedKind, kind, KindMemory, KindSQLite)
	}
}

// CloseIfSupported releases backends that hold resources, such as the
// sqlite handle. Memory stores need no closing.
func CloseIfSupported(store Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
