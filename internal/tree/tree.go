package tree

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"skelgen/internal/safety"
)

// Node — элемент описания дерева: либо *Directory, либо *FileList.
// Набор вариантов закрыт: других реализаций вне пакета быть не может.
type Node interface {
	NodeName() string
	node()
}

// Directory — каталог с вложенными узлами.
// Пустое имя означает «текущий базовый путь», новый уровень не создаётся.
type Directory struct {
	Name     string
	Children []Node
}

// FileList — каталог, в котором создаются перечисленные пустые файлы.
type FileList struct {
	Name  string
	Files []string
}

func (d *Directory) NodeName() string {
	if d == nil {
		return ""
	}
	return d.Name
}

func (f *FileList) NodeName() string {
	if f == nil {
		return ""
	}
	return f.Name
}

// IsNil сообщает, что узла нет: nil-интерфейс или nil-указатель варианта.
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Directory:
		return v == nil
	case *FileList:
		return v == nil
	}
	return false
}

func (*Directory) node() {}
func (*FileList) node()  {}

// Dir и Files — короткие конструкторы для описаний деревьев в коде и тестах.
func Dir(name string, children ...Node) *Directory {
	return &Directory{Name: name, Children: children}
}

func Files(name string, files ...string) *FileList {
	return &FileList{Name: name, Files: files}
}

// Walk обходит дерево в прямом порядке (сначала узел, затем дети).
// depth корня — 0. Ошибка из fn прерывает обход.
func Walk(n Node, fn func(n Node, depth int) error) error {
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) error) error {
	if IsNil(n) {
		return nil
	}
	if err := fn(n, depth); err != nil {
		return err
	}
	d, ok := n.(*Directory)
	if !ok {
		return nil
	}
	for _, c := range d.Children {
		if err := walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats — сколько каталогов и файлов объявлено в дереве.
// Узлы с пустым именем каталогов не добавляют.
type Stats struct {
	Dirs  int
	Files int
}

func Count(n Node) Stats {
	var s Stats
	_ = Walk(n, func(n Node, _ int) error {
		if n.NodeName() != "" {
			s.Dirs++
		}
		if fl, ok := n.(*FileList); ok {
			s.Files += len(fl.Files)
		}
		return nil
	})
	return s
}

// Validate проверяет инварианты описания: имена — один сегмент пути,
// непустые имена соседей уникальны, имена файлов не пустые.
func Validate(n Node) error {
	if IsNil(n) {
		return errors.New("пустое дерево")
	}
	return Walk(n, func(n Node, _ int) error {
		if name := n.NodeName(); name != "" {
			if err := safety.ValidateName(name); err != nil {
				return errors.Wrap(err, "каталог")
			}
		}
		switch v := n.(type) {
		case *Directory:
			names := lo.FilterMap(v.Children, func(c Node, _ int) (string, bool) {
				if IsNil(c) {
					return "", false
				}
				return c.NodeName(), c.NodeName() != ""
			})
			if dup := lo.FindDuplicates(names); len(dup) > 0 {
				return errors.Errorf("каталог %q: повторяющиеся имена %q", v.Name, dup)
			}
			for _, c := range v.Children {
				if IsNil(c) {
					return errors.Errorf("каталог %q: пустой узел", v.Name)
				}
			}
		case *FileList:
			for _, f := range v.Files {
				if err := safety.ValidateName(f); err != nil {
					return errors.Wrapf(err, "файл в каталоге %q", v.Name)
				}
			}
		}
		return nil
	})
}
