package app

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"skelgen/internal/fsops"
	"skelgen/internal/layout"
	"skelgen/internal/parser"
	"skelgen/internal/plan"
	"skelgen/internal/tree"
)

// SuccessMessage печатается после успешного создания структуры.
const SuccessMessage = "Folder structure created successfully!"

// Options — все настройки запуска утилиты.
type Options struct {
	TreePath  string // файл описания, "-" — stdin, "" — встроенное Layout
	Layout    string
	Format    parser.Format
	OutDir    string
	DryRun    bool
	Verbose   bool
	Quiet     bool
	DirPerm   os.FileMode
	FilePerm  os.FileMode
	ExecGlobs []string
	Version   string

	// Для тестов; nil — реальные ФС и потоки процесса.
	FS     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run — главная функция приложения: читает описание, строит план, применяет.
func Run(o Options) error {
	o = withDefaults(o)
	log := newLogger(o)
	log.WithFields(logrus.Fields{"version": o.Version, "out": o.OutDir}).Debug("skelgen")

	// 1) Описание дерева: встроенное, файл или stdin.
	root, err := loadTree(o)
	if err != nil {
		return errors.WithMessage(err, "ошибка чтения описания")
	}
	st := tree.Count(root)
	log.WithFields(logrus.Fields{"dirs": st.Dirs, "files": st.Files}).Debug("описание загружено")

	// 2) План относительно каталога назначения.
	p, err := plan.Build(o.OutDir, root)
	if err != nil {
		return errors.WithMessage(err, "ошибка построения плана")
	}

	// 3) В dry-run сначала показываем дерево.
	if o.DryRun && !o.Quiet {
		s, err := renderTree(o.OutDir, root)
		if err != nil {
			return err
		}
		pterm.Fprintln(o.Stdout, s)
	}

	// 4) Применяем план к файловой системе.
	res, err := fsops.Apply(fsops.ApplyArgs{
		Plan:      p,
		FS:        o.FS,
		DryRun:    o.DryRun,
		DirPerm:   o.DirPerm,
		FilePerm:  o.FilePerm,
		ExecGlobs: o.ExecGlobs,
		Log:       log,
	})
	if err != nil {
		return err
	}

	// 5) Готово.
	switch {
	case o.Quiet:
	case o.DryRun:
		pterm.Fprintln(o.Stdout, pterm.Sprintf(
			"Будет создано: каталогов %d, файлов %d (уже есть: каталогов %d, файлов %d)",
			res.DirsCreated, res.FilesCreated, res.DirsExisting, res.FilesExisting))
	default:
		pterm.Fprintln(o.Stdout, SuccessMessage)
	}
	return nil
}

func withDefaults(o Options) Options {
	if o.FS == nil {
		o.FS = afero.NewOsFs()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.OutDir == "" {
		o.OutDir = "."
	}
	if o.Layout == "" {
		o.Layout = layout.Default
	}
	return o
}

func newLogger(o Options) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(o.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case o.Quiet:
		l.SetLevel(logrus.ErrorLevel)
	case o.Verbose:
		l.SetLevel(logrus.DebugLevel)
	case o.DryRun:
		l.SetLevel(logrus.InfoLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

func loadTree(o Options) (*tree.Directory, error) {
	switch o.TreePath {
	case "":
		return layout.Get(o.Layout)
	case "-":
		return parser.Load(o.Stdin, "-", o.Format)
	}

	f, err := o.FS.Open(o.TreePath)
	if err != nil {
		return nil, errors.Wrapf(err, "не удалось открыть файл %q", o.TreePath)
	}
	defer f.Close()
	return parser.Load(f, o.TreePath, o.Format)
}
