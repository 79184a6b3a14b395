package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skelgen/internal/tree"
)

func TestBuildNested(t *testing.T) {
	root := tree.Dir("", tree.Dir("a", tree.Files("b", "x.txt")))

	p, err := Build(".", root)
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Op: MakeDir, Path: filepath.FromSlash("./a"), Depth: 0},
		{Op: MakeDir, Path: filepath.FromSlash("./a/b"), Depth: 1},
		{Op: Touch, Path: filepath.FromSlash("./a/b/x.txt"), Depth: 2},
	}, p.Steps)
}

func TestBuildEmptyKeyStaysInBase(t *testing.T) {
	p, err := Build("out", tree.Dir("", tree.Files("", "main.txt")))
	require.NoError(t, err)
	assert.Empty(t, p.Dirs())
	assert.Equal(t, []string{filepath.Join("out", "main.txt")}, p.Files())
}

func TestBuildPreOrder(t *testing.T) {
	root := tree.Dir("",
		tree.Dir("lib",
			tree.Files("core", "a.dart"),
			tree.Files("", "main.dart"),
		),
		tree.Files("assets"),
	)
	p, err := Build("", root)
	require.NoError(t, err)

	var ops []string
	for _, s := range p.Steps {
		ops = append(ops, s.Op.String()+" "+filepath.ToSlash(s.Path))
	}
	assert.Equal(t, []string{
		"mkdir ./lib",
		"mkdir ./lib/core",
		"touch ./lib/core/a.dart",
		"touch ./lib/main.dart",
		"mkdir ./assets",
	}, ops)
}

func TestBuildRejectsEscape(t *testing.T) {
	_, err := Build("out", tree.Dir("", tree.Files("..", "x")))
	assert.Error(t, err)

	_, err = Build("out", nil)
	assert.Error(t, err)
}

func TestBuildOtherBaseHasNoDotPrefix(t *testing.T) {
	p, err := Build("out/../proj", tree.Dir("", tree.Files("a", "x.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{"proj/a", "proj/a/x.txt"}, slashed(append(p.Dirs(), p.Files()...)))
}

func TestBuildRejectsTypedNil(t *testing.T) {
	var d *tree.Directory
	_, err := Build(".", tree.Dir("", d))
	assert.Error(t, err)

	var fl *tree.FileList
	_, err = Build(".", fl)
	assert.Error(t, err)
}

func slashed(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}
