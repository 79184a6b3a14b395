package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"skelgen/internal/safety"
	"skelgen/internal/tree"
)

// Маркеры ветвления tree: псевдографика и ASCII.
var branchMarkers = []string{"├──", "└──", "|--", "`--", "+--"}

// entry — строка tree после первого прохода.
type entry struct {
	name  string
	dir   bool
	depth int
	line  int
}

// ParseText читает tree-подобный текст и возвращает безымянный корень.
// Первая непустая строка — корень: "." или "./" означает сам базовый каталог,
// иначе корень становится каталогом с этим именем.
// Каталог определяется либо по суффиксу "/", либо по дочерним элементам (второй проход).
func ParseText(r io.Reader) (*tree.Directory, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	var (
		root     string
		haveRoot bool
		entries  []entry
		lineNum  int
	)

	for sc.Scan() {
		lineNum++
		raw := strings.TrimRight(sc.Text(), "\r\n")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// Первая непустая строка — корень
		if !haveRoot {
			name := strings.TrimSuffix(line, "/")
			if name != "." {
				if err := safety.ValidateName(name); err != nil {
					return nil, errors.Wrapf(err, "строка %d: некорректное имя корня", lineNum)
				}
				root = name
			}
			haveRoot = true
			continue
		}

		// Игнорируем возможную итоговую строку tree "N directories, M files"
		if isTreeSummary(line) {
			continue
		}

		depth, name, ok := parseTreeLine(raw)
		if !ok {
			return nil, errors.Errorf("строка %d: не похоже на строку tree: %q", lineNum, raw)
		}

		isDir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if err := safety.ValidateName(name); err != nil {
			return nil, errors.Wrapf(err, "строка %d", lineNum)
		}

		entries = append(entries, entry{name: name, dir: isDir, depth: depth, line: lineNum})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "чтение описания")
	}
	if !haveRoot {
		return nil, errors.New("не найден корень дерева")
	}

	// Второй проход: если у узла следующая строка глубже — это каталог.
	for i := range entries {
		if i+1 < len(entries) && entries[i+1].depth > entries[i].depth {
			entries[i].dir = true
		}
	}

	return build(root, entries)
}

// build собирает дерево по глубинам, держа стек открытых каталогов.
// Файлы одного каталога попадают в его безымянный FileList.
func build(root string, entries []entry) (*tree.Directory, error) {
	top := &tree.Directory{}
	cur := top
	if root != "" {
		cur = &tree.Directory{Name: root}
		top.Children = append(top.Children, cur)
	}

	stack := []*tree.Directory{cur}
	for _, e := range entries {
		if e.depth >= len(stack) {
			return nil, errors.Errorf("строка %d: некорректная вложенность: %q на глубине %d, открыто уровней %d",
				e.line, e.name, e.depth, len(stack))
		}
		stack = stack[:e.depth+1]
		parent := stack[e.depth]

		if e.dir {
			d := &tree.Directory{Name: e.name}
			parent.Children = append(parent.Children, d)
			stack = append(stack, d)
			continue
		}
		addFile(parent, e.name)
	}
	return top, nil
}

func addFile(d *tree.Directory, name string) {
	for _, c := range d.Children {
		if fl, ok := c.(*tree.FileList); ok && fl.Name == "" {
			fl.Files = append(fl.Files, name)
			return
		}
	}
	d.Children = append(d.Children, &tree.FileList{Files: []string{name}})
}

// parseTreeLine пытается разобрать строку формата tree.
// Возвращает depth (количество уровней), имя узла и признак успеха.
func parseTreeLine(line string) (int, string, bool) {
	idx, used := -1, ""
	for _, m := range branchMarkers {
		if i := strings.Index(line, m); i != -1 && (idx == -1 || i < idx) {
			idx, used = i, m
		}
	}
	if idx == -1 {
		return 0, "", false
	}

	depth := countDepth(line[:idx])
	name := strings.TrimSpace(line[idx+len(used):])
	if name == "" {
		return 0, "", false
	}
	return depth, name, true
}

// countDepth считает глубину по префиксу.
// Заменяем все псевдографические символы, '|' и неразрывные пробелы (их печатает tree)
// на пробелы и считаем группы по 4 пробела.
func countDepth(prefix string) int {
	s := prefix
	for _, r := range []string{"│", "└", "├", "─", "|", "\u00a0"} {
		s = strings.ReplaceAll(s, r, " ")
	}
	return strings.Count(s, " ") / 4
}

// Строка-резюме tree: "3 directories, 5 files".
func isTreeSummary(line string) bool {
	s := strings.ToLower(line)
	return strings.Contains(s, "director") && strings.Contains(s, "file") &&
		strings.ContainsAny(s, "0123456789") && !containsMarker(line)
}

func containsMarker(s string) bool {
	for _, m := range branchMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
