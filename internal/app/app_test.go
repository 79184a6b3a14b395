package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skelgen/internal/fsops"
	"skelgen/internal/parser"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

func run(t *testing.T, o Options) (string, error) {
	t.Helper()
	var out, log bytes.Buffer
	o.Stdout = &out
	o.Stderr = &log
	err := Run(o)
	return out.String(), err
}

func TestRunDefaultLayout(t *testing.T) {
	fs := afero.NewMemMapFs()

	out, err := run(t, Options{FS: fs})
	require.NoError(t, err)
	assert.Equal(t, SuccessMessage+"\n", out)

	for _, p := range []string{
		filepath.Join("lib", "main.dart"),
		filepath.Join("lib", "config", "routes", "app_router.dart"),
		filepath.Join("assets", "animations", "voice_animation.json"),
	} {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}
}

func TestRunTwiceKeepsFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := run(t, Options{FS: fs, OutDir: "app"})
	require.NoError(t, err)

	mainFile := filepath.Join("app", "lib", "main.dart")
	require.NoError(t, afero.WriteFile(fs, mainFile, []byte("void main() {}"), 0o644))

	out, err := run(t, Options{FS: fs, OutDir: "app"})
	require.NoError(t, err)
	assert.Equal(t, SuccessMessage+"\n", out)

	data, err := afero.ReadFile(fs, mainFile)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", string(data))
}

func TestRunTreeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "layout.yaml", []byte("a:\n  b: [x.txt]\n"), 0o644))

	_, err := run(t, Options{FS: fs, TreePath: "layout.yaml", OutDir: "out"})
	require.NoError(t, err)

	info, err := fs.Stat(filepath.Join("out", "a", "b", "x.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestRunStdinText(t *testing.T) {
	fs := afero.NewMemMapFs()
	in := ".\n├── src/\n│   └── main.go\n└── go.mod\n"

	_, err := run(t, Options{FS: fs, TreePath: "-", Stdin: strings.NewReader(in), Format: parser.FormatText})
	require.NoError(t, err)

	for _, p := range []string{filepath.Join("src", "main.go"), "go.mod"} {
		ok, _ := afero.Exists(fs, p)
		assert.True(t, ok, p)
	}
}

func TestRunDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "layout.json", []byte(`{"lib": {"": ["main.dart"]}, "assets": []}`), 0o644))

	out, err := run(t, Options{FS: fs, TreePath: "layout.json", DryRun: true})
	require.NoError(t, err)
	assert.Contains(t, out, "lib/")
	assert.Contains(t, out, "main.dart")
	assert.Contains(t, out, "assets/")
	assert.Contains(t, out, "каталогов 2, файлов 1")
	assert.NotContains(t, out, SuccessMessage)

	ok, _ := afero.Exists(fs, "lib")
	assert.False(t, ok)
}

func TestRunQuiet(t *testing.T) {
	out, err := run(t, Options{FS: afero.NewMemMapFs(), Quiet: true})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunCollision(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "lib", []byte("x"), 0o644))

	out, err := run(t, Options{FS: fs})
	require.Error(t, err)
	assert.Empty(t, out)

	var fe *fsops.FilesystemError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, filepath.FromSlash("./lib"), fe.Path)
}

func TestRunBadInput(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := run(t, Options{FS: fs, TreePath: "missing.yaml"})
	assert.Error(t, err)

	_, err = run(t, Options{FS: fs, Layout: "desktop"})
	assert.Error(t, err)

	_, err = run(t, Options{FS: fs, TreePath: "-", Stdin: strings.NewReader("a: b\n")})
	assert.Error(t, err)
}

func TestRenderTree(t *testing.T) {
	root, err := parser.DecodeYAML(strings.NewReader(`{"a": {"b": ["x.txt"]}, "": ["main.txt"]}`))
	require.NoError(t, err)

	s, err := renderTree(".", root)
	require.NoError(t, err)
	for _, want := range []string{"a/", "b/", "x.txt", "main.txt"} {
		assert.Contains(t, s, want)
	}
}
