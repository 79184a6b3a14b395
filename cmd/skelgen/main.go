package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"skelgen/internal/app"
	"skelgen/internal/layout"
	"skelgen/internal/parser"
)

// Версию можно переопределить через -ldflags "-X main.version=1.0.0"
var version = "dev"

type flags struct {
	tree     string
	layout   string
	format   string
	out      string
	dry      bool
	verbose  bool
	quiet    bool
	dperm    string
	fperm    string
	execGlob string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "skelgen",
		Short: "Создаёт структуру каталогов и пустых файлов по описанию дерева",
		Long: `skelgen создаёт каталоги и пустые файлы по описанию дерева.
Без аргументов разворачивает встроенный скелет мобильного приложения в текущий каталог.
Существующие каталоги и файлы не изменяются, повторный запуск безопасен.

Форматы описания:
  yaml/json — вложенное отображение: отображение — каталог, список — файлы,
              ключ "" — текущий каталог.
  text      — вывод tree: первая строка — корень ("." — сам каталог назначения),
              ветки ├──/└── или |--/` + "`--" + `, каталоги с "/" в конце или с дочерними.`,
		Example: `  skelgen
  skelgen -o ./mobile -v
  skelgen -t layout.yaml -n
  cat struct | skelgen -t - --format text -o ./dst`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			opts.Stdin = cmd.InOrStdin()
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return app.Run(opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.tree, "tree", "t", "", "Файл с описанием дерева ('-' для stdin); по умолчанию встроенное описание")
	fl.StringVarP(&f.layout, "layout", "l", layout.Default, "Встроенное описание: "+strings.Join(layout.Names(), ", "))
	fl.StringVar(&f.format, "format", string(parser.FormatAuto), "Формат описания: auto, yaml, text")
	fl.StringVarP(&f.out, "out", "o", ".", "Каталог, в котором создаётся структура")
	fl.BoolVarP(&f.dry, "dry-run", "n", false, "Только показать, что будет создано")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Подробный вывод")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Тихий режим (подавить обычные сообщения)")
	// Права по умолчанию: каталоги 0755, файлы 0644
	fl.StringVar(&f.dperm, "dperm", "0755", "Права для новых каталогов (восьмерично)")
	fl.StringVar(&f.fperm, "fperm", "0644", "Права для новых файлов (восьмерично)")
	fl.StringVar(&f.execGlob, "exec-glob", "", `Glob-шаблоны исполняемых файлов через запятую, например "*.sh,bin/*"`)

	cmd.MarkFlagsMutuallyExclusive("tree", "layout")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}

func (f flags) options() (app.Options, error) {
	dperm, err := parsePerm(f.dperm, 0o755)
	if err != nil {
		return app.Options{}, errors.Wrap(err, "неверные права --dperm")
	}
	fperm, err := parsePerm(f.fperm, 0o644)
	if err != nil {
		return app.Options{}, errors.Wrap(err, "неверные права --fperm")
	}
	format, err := parser.ParseFormat(f.format)
	if err != nil {
		return app.Options{}, err
	}

	return app.Options{
		TreePath:  f.tree,
		Layout:    f.layout,
		Format:    format,
		OutDir:    f.out,
		DryRun:    f.dry,
		Verbose:   f.verbose,
		Quiet:     f.quiet,
		DirPerm:   dperm,
		FilePerm:  fperm,
		ExecGlobs: splitGlobs(f.execGlob),
		Version:   version,
	}, nil
}

func parsePerm(s string, def os.FileMode) (os.FileMode, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return def, nil
	}
	// base=0 понимает 0755/0o755; "755" без префикса тоже считаем восьмеричным
	if !strings.HasPrefix(ss, "0") {
		ss = "0" + ss
	}
	u, err := strconv.ParseUint(ss, 0, 32)
	if err != nil {
		return 0, err
	}
	if u > 0o777 {
		return 0, errors.Errorf("%s: ожидаются только биты прав 0-0777", s)
	}
	return os.FileMode(u), nil
}

func splitGlobs(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}
