package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulePath = "git.sr.ht/~whereswaldon/benchplot"

// windowingImports are the packages that need a display and cgo to build.
var windowingImports = []string{"gioui.org", "git.sr.ht/~gioverse/"}

// TestHeadlessImports walks the module-local imports of the command line tools
// and fails if any of them reaches the window toolkit.
func TestHeadlessImports(t *testing.T) {
	root := filepath.Join("..", "..")
	queue := []string{"cmd/benchplot-cli", "cmd/benchplot-import"}
	seen := map[string]bool{}
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		if seen[pkg] {
			continue
		}
		seen[pkg] = true

		dir := filepath.Join(root, filepath.FromSlash(pkg))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		fset := token.NewFileSet()
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
				continue
			}
			f, err := parser.ParseFile(fset, filepath.Join(dir, e.Name()), nil, parser.ImportsOnly)
			require.NoError(t, err)
			for _, imp := range f.Imports {
				path, err := strconv.Unquote(imp.Path.Value)
				require.NoError(t, err)
				for _, prefix := range windowingImports {
					assert.False(t, strings.HasPrefix(path, prefix), "%s/%s imports %s", pkg, e.Name(), path)
				}
				if rest, ok := strings.CutPrefix(path, modulePath+"/"); ok {
					queue = append(queue, rest)
				}
			}
		}
	}
	assert.Contains(t, seen, "backend")
	assert.Contains(t, seen, "render")
	assert.Contains(t, seen, "ingest")
	assert.Contains(t, seen, "plan")
}
