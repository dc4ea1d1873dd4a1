package repository

import (
	"context"
	"errors"
)

// DefaultKey имя единственного слота со снапшотом
const DefaultKey = "trend"

// KeyOrDefault подставляет DefaultKey вместо пустого ключа
func KeyOrDefault(key string) string {
	if key == "" {
		return DefaultKey
	}
	return key
}

// ErrNotFound возвращается, если снапшот ещё ни разу не записывался
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore хранит один JSON-документ под одним ключом.
// Запись перезаписывает предыдущее значение (last write wins), схема не проверяется.
type SnapshotStore interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, doc []byte) error
	HealthCheck(ctx context.Context) error
	Close() error
}
