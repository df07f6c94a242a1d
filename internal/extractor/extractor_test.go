package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `#!/usr/bin/env python
"""Sample module."""
import os

VERSION = "1.0"
_private = 3
LIMIT: int = 10


class Counter(Base, metaclass=Meta):
    kind = "counter"

    def __init__(self, start=0):
        self.count = start
        self.count = 0
        self.name = "a"
        self._hidden = []

    class Inner:
        value = 1.5

    @property
    def double(self):
        return self.count * 2


def gen(items):
    def helper():
        return 1
    for item in items:
        yield item


async def fetch(url, *, timeout=None):
    if not url:
        raise ValueError("empty url")
    try:
        pass
    except KeyError:
        raise
    raise errors.NotFound(url) from None
`

func TestParseFunction(t *testing.T) {
	t.Run("Defaults and annotations", func(t *testing.T) {
		fn, err := ParseFunction("def f(a, b=1, c: int = 2):")
		require.NoError(t, err)
		assert.Equal(t, "f", fn.Name)
		require.Len(t, fn.Params, 3)

		assert.Equal(t, Param{Name: "a"}, fn.Params[0])
		assert.Equal(t, Param{Name: "b", Default: "1", DefaultType: "int", Optional: true}, fn.Params[1])
		assert.Equal(t, Param{Name: "c", Default: "2", DefaultType: "int", Annotation: "int", Optional: true}, fn.Params[2])
	})

	t.Run("Varargs and keyword-only", func(t *testing.T) {
		fn, err := ParseFunction("def g(self, x, *args, y=True, **kwargs) -> 'Result':")
		require.NoError(t, err)

		names := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"x", "*args", "y", "**kwargs"}, names)
		assert.True(t, fn.Params[1].VarArg)
		assert.True(t, fn.Params[2].KeywordOnly)
		assert.Equal(t, "bool", fn.Params[2].DefaultType)
		assert.True(t, fn.Params[3].KwArg)
		assert.False(t, fn.Params[3].KeywordOnly)
		assert.Equal(t, "Result", fn.ReturnAnnotation)
	})

	t.Run("Bare star", func(t *testing.T) {
		fn, err := ParseFunction("async def h(cls, a, *, b: 'Dict[str, int]' = None):")
		require.NoError(t, err)
		assert.True(t, fn.Async)
		require.Len(t, fn.Params, 2)
		assert.False(t, fn.Params[0].KeywordOnly)
		assert.True(t, fn.Params[1].KeywordOnly)
		assert.Equal(t, "Dict[str, int]", fn.Params[1].Annotation)
		assert.Equal(t, "", fn.Params[1].DefaultType)
		assert.True(t, fn.Params[1].Optional)
	})

	t.Run("Multi-line header", func(t *testing.T) {
		header := "    @decorator\n    def m(self,\n          a: List[\n              int],\n          b=(1, 2)):"
		fn, err := ParseFunction(header)
		require.NoError(t, err)
		require.Len(t, fn.Params, 2)
		assert.Equal(t, "List[int]", fn.Params[0].Annotation)
		assert.Equal(t, "tuple", fn.Params[1].DefaultType)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, header := range []string{"", "def f(a b):", "def f(:", "class A:", "x = 1"} {
			_, err := ParseFunction(header)
			assert.ErrorIs(t, err, ErrMalformedDeclaration, header)
		}
	})
}

func TestParseClass(t *testing.T) {
	class, err := ParseClass("class Counter(Base, mixins.Sized, metaclass=Meta):")
	require.NoError(t, err)
	assert.Equal(t, "Counter", class.Name)
	assert.Equal(t, []string{"Base", "mixins.Sized"}, class.Bases)

	class, err = ParseClass("class Plain:")
	require.NoError(t, err)
	assert.Empty(t, class.Bases)

	_, err = ParseClass("def f():")
	assert.ErrorIs(t, err, ErrMalformedDeclaration)
}

func TestInferLiteralType(t *testing.T) {
	tests := map[string]string{
		"1":             "int",
		"-1":            "int",
		"0x1F":          "int",
		"1.5":           "float",
		"2j":            "complex",
		"1+2j":          "complex",
		"'a'":           "str",
		`"a" "b"`:       "str",
		"b'a'":          "bytes",
		"True":          "bool",
		"[1, 'a']":      "list",
		"(1, 2)":        "tuple",
		"()":            "tuple",
		"{'a': [None]}": "dict",
		"{}":            "dict",
		"{1, 2}":        "set",
		"...":           "ellipsis",
	}
	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			got, ok := InferLiteralType(text)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		})
	}

	for _, text := range []string{"None", "SOME_CONSTANT", "a+b", "f'x{y}'", "set()", "[x]", ""} {
		t.Run("not literal "+text, func(t *testing.T) {
			_, ok := InferLiteralType(text)
			assert.False(t, ok)
		})
	}
}

func TestFindDeclarations(t *testing.T) {
	decls, err := FindDeclarations([]byte(sampleSource))
	require.NoError(t, err)

	byName := make(map[string]Declaration)
	for _, d := range decls {
		byName[d.Name] = d
	}

	t.Run("Order", func(t *testing.T) {
		var names []string
		for _, d := range decls {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"", "Counter", "__init__", "Inner", "double", "gen", "helper", "fetch"}, names)
		assert.Equal(t, KindModule, decls[0].Kind)
	})

	t.Run("Module attributes", func(t *testing.T) {
		assert.Equal(t, []Attribute{
			{Name: "VERSION", Type: "str"},
			{Name: "LIMIT", Type: "int", Annotated: true},
		}, decls[0].Attributes)
	})

	t.Run("Class attributes", func(t *testing.T) {
		counter := byName["Counter"]
		assert.Equal(t, KindClass, counter.Kind)
		assert.Equal(t, "class Counter(Base, metaclass=Meta):", counter.Header)
		assert.Equal(t, []Attribute{
			{Name: "kind", Type: "str"},
			{Name: "count", Type: "int"},
			{Name: "name", Type: "str"},
		}, counter.Attributes)
	})

	t.Run("Method header and indent", func(t *testing.T) {
		ctor := byName["__init__"]
		assert.Equal(t, "def __init__(self, start=0):", ctor.Header)
		assert.Equal(t, "    ", ctor.Indent)
		assert.Equal(t, ctor.Start+len(ctor.Header), ctor.HeaderEnd)
		assert.True(t, ctor.Contains(ctor.StartLine+1))
	})

	t.Run("Return keywords", func(t *testing.T) {
		assert.Equal(t, KeywordReturn, byName["double"].Keyword)
		assert.Equal(t, KeywordYield, byName["gen"].Keyword)
		assert.Equal(t, KeywordNone, byName["__init__"].Keyword)
		assert.Equal(t, KeywordNone, byName["fetch"].Keyword)
	})

	t.Run("Raises", func(t *testing.T) {
		assert.Equal(t, []string{"ValueError", "errors.NotFound"}, byName["fetch"].Raises)
		assert.Empty(t, byName["gen"].Raises)
	})
}

func TestScanClassAttributes(t *testing.T) {
	block := "    class A:\n" +
		"        def __init__(self):\n" +
		"            self.count = 0\n" +
		"            self.name = \"a\"\n"
	attrs, err := ScanClassAttributes(block)
	require.NoError(t, err)
	assert.Equal(t, []Attribute{{Name: "count", Type: "int"}, {Name: "name", Type: "str"}}, attrs)
}

func TestScanFunctionBody(t *testing.T) {
	block := "def f(x):\n" +
		"    # raise NotThis\n" +
		"    s = 'raise NotThisEither'\n" +
		"    if x:\n" +
		"        raise TypeError\n" +
		"    return x\n"

	raises, err := ScanRaises(block)
	require.NoError(t, err)
	assert.Equal(t, []string{"TypeError"}, raises)

	kw, err := ScanReturnKeyword(block)
	require.NoError(t, err)
	assert.Equal(t, KeywordReturn, kw)

	_, err = ScanReturnKeyword("x = 1\n")
	assert.ErrorIs(t, err, ErrMalformedDeclaration)
}

func TestScanModuleAttributes(t *testing.T) {
	attrs, err := ScanModuleAttributes("A = B = [1]\n_c = 2\nif True:\n    D = 3\n")
	require.NoError(t, err)
	assert.Equal(t, []Attribute{{Name: "A", Type: "list"}, {Name: "B", Type: "list"}}, attrs)
}
