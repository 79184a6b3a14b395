// Package layout хранит встроенные описания деревьев.
// Это данные, а не код: каждое описание — YAML-файл рядом с пакетом.
package layout

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"skelgen/internal/parser"
	"skelgen/internal/tree"
)

// Default — описание, которое используется без флагов.
const Default = "mobile"

//go:embed *.yaml
var files embed.FS

// Names — имена встроенных описаний по алфавиту.
// Ошибка чтения встроенного каталога означает сломанную сборку, поэтому паника.
func Names() []string {
	names, err := listNames(files)
	if err != nil {
		panic(errors.Wrap(err, "встроенные описания"))
	}
	return names
}

func listNames(fsys fs.ReadDirFS) ([]string, error) {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Get декодирует встроенное описание по имени.
func Get(name string) (*tree.Directory, error) {
	f, err := files.Open(name + ".yaml")
	if err != nil {
		return nil, errors.Errorf("неизвестное встроенное описание %q (есть: %s)", name, strings.Join(Names(), ", "))
	}
	defer f.Close()
	return parser.Load(f, name+".yaml", parser.FormatYAML)
}
