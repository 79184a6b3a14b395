package parser

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"skelgen/internal/tree"
)

// DecodeYAML читает описание в виде вложенного отображения (YAML или JSON):
//
//	lib:
//	  core:
//	    error: [exceptions.dart, failures.dart]
//	  "": [main.dart]
//	assets:
//	  images:
//	    logo: []
//
// Отображение становится Directory, список — FileList, пустое значение — FileList без файлов.
// Порядок ключей сохраняется.
func DecodeYAML(r io.Reader) (*tree.Directory, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("пустое описание дерева")
		}
		return nil, errors.Wrap(err, "разбор YAML")
	}

	root := resolve(&doc)
	if root.Kind != yaml.MappingNode {
		return nil, errors.Errorf("строка %d: корень должен быть отображением", root.Line)
	}
	children, err := decodeMapping(root)
	if err != nil {
		return nil, err
	}
	return &tree.Directory{Children: children}, nil
}

func decodeMapping(m *yaml.Node) ([]tree.Node, error) {
	children := make([]tree.Node, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], resolve(m.Content[i+1])
		if k.Kind != yaml.ScalarNode || (k.ShortTag() == "!!null" && k.Value != "") {
			return nil, errors.Errorf("строка %d: имя каталога должно быть строкой", k.Line)
		}
		name := k.Value

		switch {
		case v.Kind == yaml.MappingNode:
			kids, err := decodeMapping(v)
			if err != nil {
				return nil, err
			}
			children = append(children, &tree.Directory{Name: name, Children: kids})

		case v.Kind == yaml.SequenceNode:
			files, err := decodeFiles(v)
			if err != nil {
				return nil, err
			}
			children = append(children, &tree.FileList{Name: name, Files: files})

		case v.Kind == yaml.ScalarNode && v.ShortTag() == "!!null":
			children = append(children, &tree.FileList{Name: name})

		default:
			return nil, errors.Errorf("строка %d: %q: ожидался каталог или список файлов", v.Line, name)
		}
	}
	return children, nil
}

func decodeFiles(seq *yaml.Node) ([]string, error) {
	files := make([]string, 0, len(seq.Content))
	for _, it := range seq.Content {
		it = resolve(it)
		if it.Kind != yaml.ScalarNode || it.ShortTag() == "!!null" {
			return nil, errors.Errorf("строка %d: имя файла должно быть строкой", it.Line)
		}
		files = append(files, it.Value)
	}
	return files, nil
}

// resolve снимает обёртку документа и раскрывает алиасы.
func resolve(n *yaml.Node) *yaml.Node {
	for {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
}
