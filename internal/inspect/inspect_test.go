package inspect

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspectString(t *testing.T, src string) Findings {
	t.Helper()
	f, err := Inspect(context.Background(), []byte(src))
	require.NoError(t, err)
	return f
}

func TestInspectBareFunction(t *testing.T) {
	f := inspectString(t, "def f(x):\n    return x\n")

	assert.Equal(t, []string{"f missing docstring"}, f.Docstrings)
	assert.Equal(t, []string{"f missing type hint for x", "f missing return type hint"}, f.TypeHints)
	assert.Len(t, append(f.Docstrings, f.TypeHints...), 3)
}

func TestInspectFullyAnnotated(t *testing.T) {
	src := `class Service:
    """Serves things."""

    def handle(self: "Service", req: int, retries: int = 3) -> bool:
        """Handle a request."""
        return True
`
	f := inspectString(t, src)
	assert.Empty(t, f.Docstrings)
	assert.Empty(t, f.TypeHints)
}

func TestInspectMethodsAndNesting(t *testing.T) {
	src := `class A:
    def m(self, y: int) -> None:
        pass

def top():
    """Top level."""
    def inner(z) -> int:
        """Inner."""
        return z
    return inner
`
	f := inspectString(t, src)
	assert.Equal(t, []string{"A missing docstring", "m missing docstring"}, f.Docstrings)
	assert.Equal(t, []string{
		"top missing return type hint",
		"m missing type hint for self",
		"inner missing type hint for z",
	}, f.TypeHints)
}

func TestInspectAsyncSkipsTypeHints(t *testing.T) {
	f := inspectString(t, "async def fetch(url):\n    return url\n")

	assert.Equal(t, []string{"fetch missing docstring"}, f.Docstrings)
	assert.Empty(t, f.TypeHints)
}

func TestInspectDecorated(t *testing.T) {
	src := `@decorator
def wrapped(a: int) -> int:
    return a
`
	f := inspectString(t, src)
	assert.Equal(t, []string{"wrapped missing docstring"}, f.Docstrings)
	assert.Empty(t, f.TypeHints)
}

func TestInspectOnlyPositionalOrKeywordParams(t *testing.T) {
	src := `def g(a, /, b, c=1, *args, d, **kwargs) -> None:
    """Doc."""
`
	f := inspectString(t, src)
	assert.Equal(t, []string{"g missing type hint for b", "g missing type hint for c"}, f.TypeHints)
}

func TestInspectDocstringVariants(t *testing.T) {
	cases := map[string]struct {
		src     string
		missing bool
	}{
		"triple":        {`def f() -> None:` + "\n" + `    """Doc."""` + "\n", false},
		"single":        {"def f() -> None:\n    'doc'\n", false},
		"raw":           {"def f() -> None:\n    r'doc'\n", false},
		"empty":         {"def f() -> None:\n    \"\"\"   \"\"\"\n", true},
		"bytes":         {"def f() -> None:\n    b'doc'\n", true},
		"fstring":       {"def f() -> None:\n    f'doc'\n", true},
		"not first":     {"def f() -> None:\n    x = 1\n    'doc'\n", true},
		"comment":       {"def f() -> None:\n    # note\n    'doc'\n", false},
		"concat":        {"def f() -> None:\n    'a' 'b'\n", false},
		"expression":    {"def f() -> None:\n    call()\n", true},
		"parens":        {"def f() -> None:\n    (\"doc\")\n", false},
		"nested parens": {"def f() -> None:\n    (('doc'))\n", false},
		"parens bytes":  {"def f() -> None:\n    (b'doc')\n", true},
		"tuple":         {"def f() -> None:\n    ('doc',)\n", true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := inspectString(t, tc.src)
			if tc.missing {
				assert.Equal(t, []string{"f missing docstring"}, f.Docstrings)
			} else {
				assert.Empty(t, f.Docstrings)
			}
		})
	}
}

func TestInspectSyntaxError(t *testing.T) {
	_, err := Inspect(context.Background(), []byte("def broken(:\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestInspectFileMissing(t *testing.T) {
	f, err := New(t.TempDir()).InspectFile(context.Background(), "app.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py not found for analysis"}, f.Docstrings)
	assert.Empty(t, f.TypeHints)
}

func TestInspectFileRelativeToRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("def f(x):\n    pass\n"), 0o644))

	f, err := New(root).InspectFile(context.Background(), "app.py")
	require.NoError(t, err)
	assert.Len(t, f.Docstrings, 1)
	assert.Len(t, f.TypeHints, 2)
}
