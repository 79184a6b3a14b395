package safety

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrEscape — целевой путь оказался вне базового каталога.
var ErrEscape = errors.New("путь выходит за пределы базового каталога")

// ValidateName проверяет, что имя — ровно один сегмент пути:
// не пустое, не "." и не "..", без разделителей, не абсолютное.
// Соглашения об именовании (регистр, расширения) не проверяются.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("пустое имя")
	case name == "." || name == "..":
		return errors.Errorf("недопустимое имя: %q", name)
	case strings.ContainsAny(name, `/\`):
		return errors.Errorf("имя не должно содержать разделителей пути: %q", name)
	case filepath.IsAbs(name):
		return errors.Errorf("абсолютные пути запрещены: %q", name)
	}
	return nil
}

// SafeJoin объединяет base и parts и убеждается, что результат остаётся внутри base.
// Пустые части пропускаются: filepath.Join их игнорирует.
func SafeJoin(base string, parts ...string) (string, error) {
	cleanBase := filepath.Clean(base)
	p := filepath.Join(append([]string{cleanBase}, parts...)...)

	rel, err := filepath.Rel(cleanBase, p)
	if err != nil {
		return "", errors.Wrapf(err, "путь %s", p)
	}
	relSl := filepath.ToSlash(rel)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", errors.Wrap(ErrEscape, p)
	}
	return p, nil
}
