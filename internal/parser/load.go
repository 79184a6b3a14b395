package parser

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"skelgen/internal/tree"
)

// Format — формат описания дерева.
type Format string

const (
	FormatAuto Format = "auto"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat разбирает значение флага --format. Пустая строка — auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatYAML, "yml", "json":
		return FormatYAML, nil
	case FormatText, "tree":
		return FormatText, nil
	default:
		return "", errors.Errorf("неизвестный формат %q (auto, yaml, text)", s)
	}
}

// Load читает описание дерева и проверяет его инварианты.
// name нужен только для определения формата в режиме auto ("-" — stdin).
func Load(r io.Reader, name string, f Format) (*tree.Directory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "чтение %s", name)
	}
	if f == FormatAuto || f == "" {
		f = Detect(name, data)
	}

	var root *tree.Directory
	switch f {
	case FormatYAML:
		root, err = DecodeYAML(bytes.NewReader(data))
	case FormatText:
		root, err = ParseText(bytes.NewReader(data))
	default:
		return nil, errors.Errorf("неизвестный формат %q", f)
	}
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}
	if err := tree.Validate(root); err != nil {
		return nil, errors.WithMessage(err, name)
	}
	return root, nil
}

// Detect выбирает формат по расширению, а без него — по наличию веток tree в тексте.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML
	case ".tree", ".txt":
		return FormatText
	}
	if containsMarker(string(data)) {
		return FormatText
	}
	return FormatYAML
}
