package fsops

import (
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"skelgen/internal/plan"
	"skelgen/internal/tree"
)

const (
	DefaultDirPerm  os.FileMode = 0o755
	DefaultFilePerm os.FileMode = 0o644
)

// ApplyArgs — параметры применения плана к файловой системе.
type ApplyArgs struct {
	Plan      plan.Plan
	FS        afero.Fs // nil — реальная ФС
	DryRun    bool
	DirPerm   os.FileMode
	FilePerm  os.FileMode
	ExecGlobs []string // шаблоны относительно Plan.Base, через "/"
	Log       logrus.FieldLogger
}

// Result — что сделано (или было бы сделано при DryRun).
type Result struct {
	DirsCreated   int
	DirsExisting  int
	FilesCreated  int
	FilesExisting int
}

// Created — всего новых каталогов и файлов.
func (r Result) Created() int { return r.DirsCreated + r.FilesCreated }

// Materialize строит план для root относительно base и применяет его
// с правами по умолчанию.
func Materialize(fs afero.Fs, base string, root tree.Node) (Result, error) {
	p, err := plan.Build(base, root)
	if err != nil {
		return Result{}, err
	}
	return Apply(ApplyArgs{Plan: p, FS: fs})
}

// Apply создаёт каталоги и файлы по плану, строго по порядку шагов.
// Существующие каталоги и файлы не трогаются; первая ошибка прерывает работу.
func Apply(a ApplyArgs) (Result, error) {
	a = withDefaults(a)
	var res Result

	// В dry-run пишем в память поверх исходной ФС, доступной только на чтение:
	// тот же путь кода, те же коллизии и повторы, диск не меняется.
	if a.DryRun {
		a.FS = afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(a.FS), afero.NewMemMapFs())
	}

	// 1) Базовый каталог: создаём, если его нет, но в статистику не включаем.
	if _, err := ensureDir(a, a.Plan.Base); err != nil {
		return res, err
	}

	// 2) Шаги в порядке прямого обхода.
	for _, s := range a.Plan.Steps {
		switch s.Op {
		case plan.MakeDir:
			created, err := ensureDir(a, s.Path)
			if err != nil {
				return res, err
			}
			if created {
				res.DirsCreated++
			} else {
				res.DirsExisting++
			}
		case plan.Touch:
			created, err := ensureFile(a, s.Path)
			if err != nil {
				return res, err
			}
			if created {
				res.FilesCreated++
			} else {
				res.FilesExisting++
			}
		}
	}

	a.Log.WithFields(logrus.Fields{
		"dirs":        res.DirsCreated,
		"files":       res.FilesCreated,
		"dirs_exist":  res.DirsExisting,
		"files_exist": res.FilesExisting,
		"dry_run":     a.DryRun,
	}).Debug("план применён")
	return res, nil
}

func withDefaults(a ApplyArgs) ApplyArgs {
	if a.FS == nil {
		a.FS = afero.NewOsFs()
	}
	if a.DirPerm == 0 {
		a.DirPerm = DefaultDirPerm
	}
	if a.FilePerm == 0 {
		a.FilePerm = DefaultFilePerm
	}
	if a.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		a.Log = l
	}
	if a.Plan.Base == "" {
		a.Plan.Base = "."
	}
	return a
}

func ensureDir(a ApplyArgs, path string) (bool, error) {
	log := a.Log.WithFields(logrus.Fields{"op": "mkdir", "path": path})

	info, err := a.FS.Stat(path)
	switch {
	case err == nil && info.IsDir():
		// Каталог уже существует — ок
		log.Debug("каталог уже есть")
		return false, nil

	case err == nil:
		return false, fsErr("mkdir", path, ErrNotDirectory)

	case os.IsNotExist(err):
		if err := a.FS.MkdirAll(path, a.DirPerm); err != nil {
			return false, fsErr("mkdir", path, err)
		}
		// Права выставляем явно, чтобы не зависеть от umask.
		if err := a.FS.Chmod(path, a.DirPerm); err != nil {
			return false, fsErr("chmod", path, err)
		}
		logCreated(a, log, "каталог")
		return true, nil

	default:
		return false, fsErr("stat", path, err)
	}
}

func ensureFile(a ApplyArgs, path string) (bool, error) {
	log := a.Log.WithFields(logrus.Fields{"op": "touch", "path": path})

	info, err := a.FS.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return false, fsErr("touch", path, ErrIsDirectory)

	case err == nil:
		// Файл существует: содержимое и права не меняем.
		log.Debug("файл уже есть")
		return false, nil

	case os.IsNotExist(err):
		mode := chooseFileMode(a, path)
		// O_APPEND без O_TRUNC: если файл появился между Stat и OpenFile, данные не теряются.
		f, err := a.FS.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
		if err != nil {
			return false, fsErr("touch", path, err)
		}
		if err := f.Close(); err != nil {
			return false, fsErr("touch", path, err)
		}
		if err := a.FS.Chmod(path, mode); err != nil {
			return false, fsErr("chmod", path, err)
		}
		logCreated(a, log, "файл")
		return true, nil

	default:
		return false, fsErr("stat", path, err)
	}
}

func logCreated(a ApplyArgs, log logrus.FieldLogger, what string) {
	if a.DryRun {
		log.Info("будет создан " + what)
		return
	}
	log.Debug(what + " создан")
}

func chooseFileMode(a ApplyArgs, path string) os.FileMode {
	rel := path
	if r, err := filepath.Rel(a.Plan.Base, path); err == nil {
		rel = r
	}
	relSl := filepath.ToSlash(rel)

	// Исполняемые по glob
	exec := lo.ContainsBy(a.ExecGlobs, func(pat string) bool {
		ok, _ := filepath.Match(filepath.ToSlash(pat), relSl)
		return ok
	})
	if exec {
		return 0o755
	}
	return a.FilePerm
}
