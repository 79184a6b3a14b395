package fsops

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotDirectory — на месте каталога уже лежит не каталог.
	ErrNotDirectory = errors.New("путь занят, это не каталог")
	// ErrIsDirectory — на месте файла уже лежит каталог.
	ErrIsDirectory = errors.New("путь занят каталогом")
)

// FilesystemError — единственный класс ошибок материализации:
// нет прав, недопустимое имя, коллизия файла и каталога.
type FilesystemError struct {
	Op   string // mkdir, touch, chmod, stat
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func fsErr(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}
