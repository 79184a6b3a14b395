package plan

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"skelgen/internal/safety"
	"skelgen/internal/tree"
)

// Op — действие над файловой системой.
type Op int

const (
	MakeDir Op = iota // mkdir -p
	Touch             // создать пустой файл, если его нет
)

func (o Op) String() string {
	switch o {
	case MakeDir:
		return "mkdir"
	case Touch:
		return "touch"
	}
	return "unknown"
}

// Step — одно действие с уже разрешённым путём.
type Step struct {
	Op    Op
	Path  string // base + сегменты от корня дерева
	Depth int    // уровень вложенности относительно base (0 — прямо в base)
}

// Plan — базовый каталог и шаги в порядке прямого обхода дерева:
// каталог всегда идёт раньше своих файлов и подкаталогов.
type Plan struct {
	Base  string
	Steps []Step

	dotBase bool // base — текущий каталог: пути пишем как ./a, а не a
}

// Build разворачивает дерево в список шагов.
// Узел с пустым именем остаётся в текущем каталоге и шага mkdir не даёт.
// Каждое имя присоединяется через SafeJoin, поэтому путь не покидает base.
func Build(base string, root tree.Node) (Plan, error) {
	if tree.IsNil(root) {
		return Plan{}, errors.New("пустое дерево")
	}
	p := Plan{Base: base, dotBase: filepath.Clean(base) == "."}
	if err := p.add(base, 0, root); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (p *Plan) add(dir string, depth int, n tree.Node) error {
	target := dir
	if name := n.NodeName(); name != "" {
		t, err := safety.SafeJoin(dir, name)
		if err != nil {
			return err
		}
		target = p.shown(t)
		p.Steps = append(p.Steps, Step{Op: MakeDir, Path: target, Depth: depth})
		depth++
	}

	switch v := n.(type) {
	case *tree.Directory:
		for _, c := range v.Children {
			if tree.IsNil(c) {
				return errors.Errorf("каталог %s: пустой узел", target)
			}
			if err := p.add(target, depth, c); err != nil {
				return err
			}
		}
	case *tree.FileList:
		for _, f := range v.Files {
			fp, err := safety.SafeJoin(target, f)
			if err != nil {
				return err
			}
			p.Steps = append(p.Steps, Step{Op: Touch, Path: p.shown(fp), Depth: depth})
		}
	default:
		return errors.Errorf("неизвестный тип узла %T", n)
	}
	return nil
}

// shown возвращает очищенный путь в том виде, в каком его увидит пользователь:
// при базе "." — с явным префиксом "./".
func (p *Plan) shown(path string) string {
	if !p.dotBase || filepath.IsAbs(path) {
		return path
	}
	return "." + string(filepath.Separator) + path
}

// Dirs и Files — пути шагов соответствующего типа, в порядке плана.
func (p Plan) Dirs() []string  { return p.paths(MakeDir) }
func (p Plan) Files() []string { return p.paths(Touch) }

func (p Plan) paths(op Op) []string {
	return lo.FilterMap(p.Steps, func(s Step, _ int) (string, bool) {
		return s.Path, s.Op == op
	})
}
