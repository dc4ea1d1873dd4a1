package service

import (
	"errors"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot has not been written yet")
	ErrMalformedInput   = errors.New("malformed input")
	ErrInvalidSnapshot  = errors.New("snapshot does not match schema")
	ErrStoreUnavailable = errors.New("snapshot store unavailable")
	ErrInvalidInput     = errors.New("invalid input")
)

// Error помечает причину отказа одним из экспортированных sentinel-значений.
// errors.Is(err, ErrMalformedInput) и т.п. работает по Kind, errors.Unwrap отдаёт исходную ошибку.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func wrap(kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// KindOf возвращает sentinel причины или nil, если ошибка не из этого пакета
func KindOf(err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return nil
}
