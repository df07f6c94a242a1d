package autodoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autodocstring/internal/docstring"
	"autodocstring/internal/extractor"
)

func document(t *testing.T, e *Engine, src string, lines ...int) (string, *Report) {
	t.Helper()
	out, report, err := e.DocumentSource("mod.py", []byte(src), Selection{Lines: lines})
	require.NoError(t, err)
	return string(out), report
}

func TestDocumentSource_Insertion(t *testing.T) {
	e, _ := newTestEngine(testConfig())

	t.Run("Indented body", func(t *testing.T) {
		src := "def f(a, b=1, c: int = 2):\n    return a\n"
		out, report := document(t, e, src, 1)

		want := "def f(a, b=1, c: int = 2):\n" +
			"    \"\"\"Summary\n" +
			"\n" +
			"    Args:\n" +
			"        a (TYPE): Description\n" +
			"        b (int): Description\n" +
			"        c (int): Description\n" +
			"\n" +
			"    Returns:\n" +
			"        name (TYPE): Description\n" +
			"    \"\"\"\n" +
			"    return a\n"
		assert.Equal(t, want, out)
		assert.Equal(t, 1, report.Created)
		assert.Empty(t, report.Failures)
	})

	t.Run("Body on the declaration line", func(t *testing.T) {
		out, _ := document(t, e, "def f(): return 1\n", 0)

		want := "def f():\n" +
			"    \"\"\"Summary\n" +
			"\n" +
			"    Returns:\n" +
			"        name (TYPE): Description\n" +
			"    \"\"\"\n" +
			"    return 1\n"
		assert.Equal(t, want, out)
	})

	t.Run("Raises are sorted", func(t *testing.T) {
		src := "def check(x):\n" +
			"    if x < 0:\n" +
			"        raise ValueError(\"neg\")\n" +
			"    raise TypeError\n"
		out, _ := document(t, e, src, 1)

		want := "def check(x):\n" +
			"    \"\"\"Summary\n" +
			"\n" +
			"    Args:\n" +
			"        x (TYPE): Description\n" +
			"\n" +
			"    Raises:\n" +
			"        TypeError: Description\n" +
			"        ValueError: Description\n" +
			"    \"\"\"\n" +
			"    if x < 0:\n" +
			"        raise ValueError(\"neg\")\n" +
			"    raise TypeError\n"
		assert.Equal(t, want, out)
	})

	t.Run("Class attributes", func(t *testing.T) {
		src := "class Counter:\n" +
			"    def __init__(self):\n" +
			"        self.count = 0\n" +
			"        self.name = \"a\"\n"
		out, _ := document(t, e, src, 0)

		want := "class Counter:\n" +
			"    \"\"\"Summary\n" +
			"\n" +
			"    Attributes:\n" +
			"        count (int): Description\n" +
			"        name (str): Description\n" +
			"    \"\"\"\n" +
			"    def __init__(self):\n" +
			"        self.count = 0\n" +
			"        self.name = \"a\"\n"
		assert.Equal(t, want, out)
	})

	t.Run("Module below the preamble", func(t *testing.T) {
		src := "#!/usr/bin/env python\n" +
			"# -*- coding: utf-8 -*-\n" +
			"import os\n" +
			"\n" +
			"LIMIT = 10\n"
		out, _ := document(t, e, src, 2)

		want := "#!/usr/bin/env python\n" +
			"# -*- coding: utf-8 -*-\n" +
			"\"\"\"Summary\n" +
			"\n" +
			"Attributes:\n" +
			"    LIMIT (int): Description\n" +
			"\"\"\"\n" +
			"import os\n" +
			"\n" +
			"LIMIT = 10\n"
		assert.Equal(t, want, out)
	})

	t.Run("Quote style", func(t *testing.T) {
		cfg := testConfig()
		cfg.DefaultQStyle = "'''"
		e, _ := newTestEngine(cfg)
		out, _ := document(t, e, "class A:\n    pass\n", 0)
		assert.Equal(t, "class A:\n    '''Summary'''\n    pass\n", out)
	})

	t.Run("Requested quote style needs force off", func(t *testing.T) {
		cfg := testConfig()
		e, _ := newTestEngine(cfg)
		sel := Selection{Lines: []int{0}, Quote: "'''"}

		out, _, err := e.DocumentSource("mod.py", []byte("class A:\n    pass\n"), sel)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"""Summary"""`)

		cfg.ForceDefaultQStyle = false
		out, _, err = e.DocumentSource("mod.py", []byte("class A:\n    pass\n"), sel)
		require.NoError(t, err)
		assert.Contains(t, string(out), `'''Summary'''`)
	})
}

func TestDocumentSource_Merge(t *testing.T) {
	e, _ := newTestEngine(testConfig())

	t.Run("Stale parameter is archived in place", func(t *testing.T) {
		src := "def f(a, b):\n" +
			"    \"\"\"Do it.\n" +
			"\n" +
			"    Args:\n" +
			"        a (int): the first\n" +
			"        old (str): stale\n" +
			"    \"\"\"\n" +
			"    return a + b\n"
		out, report := document(t, e, src, 7)

		want := "def f(a, b):\n" +
			"    \"\"\"Do it.\n" +
			"\n" +
			"    Args:\n" +
			"        a (int): the first\n" +
			"        b (TYPE): Description\n" +
			"\n" +
			"    Deleted Parameters:\n" +
			"        old (str): stale\n" +
			"    \"\"\"\n" +
			"    return a + b\n"
		assert.Equal(t, want, out)
		assert.Equal(t, 0, report.Created)
		require.Len(t, report.Diagnostics, 1)
		assert.Equal(t, []string{"old"}, report.Diagnostics[0].Names)
	})

	t.Run("Generator turns Returns into Yields", func(t *testing.T) {
		src := "def gen():\n" +
			"    \"\"\"Make numbers.\n" +
			"\n" +
			"    Returns:\n" +
			"        int: a number\n" +
			"    \"\"\"\n" +
			"    yield 1\n"
		out, _ := document(t, e, src, 6)
		assert.Contains(t, out, "    Yields:\n        int: a number\n")
		assert.NotContains(t, out, "Returns")
	})

	t.Run("Document all is idempotent", func(t *testing.T) {
		src := "import os\n" +
			"\n" +
			"LIMIT = 10\n" +
			"\n" +
			"\n" +
			"class Counter(object):\n" +
			"    step = 1\n" +
			"\n" +
			"    def __init__(self, start=0):\n" +
			"        self.count = start\n" +
			"\n" +
			"    def bump(self, by: int = 1) -> int:\n" +
			"        if by < 0:\n" +
			"            raise ValueError(by)\n" +
			"        self.count += by\n" +
			"        return self.count\n" +
			"\n" +
			"\n" +
			"def walk(root, *args, **kwargs):\n" +
			"    def helper(x):\n" +
			"        return x\n" +
			"    for item in os.listdir(root):\n" +
			"        yield helper(item)\n"

		once, report := document(t, e, src)
		assert.Equal(t, 6, report.Documented)
		assert.Equal(t, 6, report.Created)
		assert.Empty(t, report.Failures)

		twice, report := document(t, e, once)
		assert.Equal(t, once, twice)
		assert.Equal(t, 0, report.Created)
		assert.Empty(t, report.Diagnostics)

		assert.Contains(t, once, "    def bump(self, by: int = 1) -> int:\n"+
			"        \"\"\"Summary\n"+
			"\n"+
			"        Args:\n"+
			"            by (int): Description\n"+
			"\n"+
			"        Raises:\n"+
			"            ValueError: Description\n"+
			"\n"+
			"        Returns:\n"+
			"            name (int): Description\n"+
			"        \"\"\"\n")
		assert.Contains(t, once, "        *args: Description\n        **kwargs: Description\n")
		assert.Contains(t, once, "    Yields:\n        name (TYPE): Description\n")
	})

	t.Run("Preserve the original text", func(t *testing.T) {
		cfg := testConfig()
		cfg.PreserveOriginalOnRewrite = true
		e, _ := newTestEngine(cfg)

		src := "def f(a):\n" +
			"    \"\"\"Do it.\n" +
			"\n" +
			"    Args:\n" +
			"        old (int): stale\n" +
			"    \"\"\"\n" +
			"    return a\n"
		once, _ := document(t, e, src, 6)
		assert.Contains(t, once, "    \"\"\"\n"+
			"    # \"\"\"Do it.\n"+
			"    #\n"+
			"    # Args:\n"+
			"    #     old (int): stale\n"+
			"    # \"\"\"\n"+
			"    return a\n")

		twice, _ := document(t, e, once, 1)
		assert.Equal(t, once, twice)
	})
}

func TestDocumentSource_AutoStyle(t *testing.T) {
	cfg := testConfig()
	cfg.Style = "auto_google"
	cfg.CacheSize = 16
	e, _ := newTestEngine(cfg)

	src := "def first(a):\n" +
		"    \"\"\"Head.\n" +
		"\n" +
		"    Parameters\n" +
		"    ----------\n" +
		"    a : int\n" +
		"        value\n" +
		"    \"\"\"\n" +
		"    return a\n" +
		"\n" +
		"\n" +
		"def second(b):\n" +
		"    return b\n"

	out, report := document(t, e, src, 12)
	assert.Equal(t, docstring.Numpy, report.Style)
	assert.Contains(t, out, "    Parameters\n    ----------\n    b : TYPE\n        Description\n")

	_, report = document(t, e, src, 12)
	assert.Equal(t, docstring.Numpy, report.Style)
	assert.Equal(t, int64(1), e.styles.Stats().Hits)

	t.Run("Fallback without docstrings", func(t *testing.T) {
		cfg := testConfig()
		cfg.Style = "auto_sphinx"
		e, _ := newTestEngine(cfg)
		out, report := document(t, e, "def f(a):\n    return a\n", 1)
		assert.Equal(t, docstring.Sphinx, report.Style)
		assert.Contains(t, out, ":param a: Description")
	})
}

func TestDocumentSource_Failures(t *testing.T) {
	e, _ := newTestEngine(testConfig())

	t.Run("Unterminated docstring", func(t *testing.T) {
		src := "def f():\n    \"\"\"Oops\n    return 1\n"
		d := extractor.Declaration{Kind: extractor.KindFunction, Name: "f", Header: "def f():", HeaderEnd: 8}

		_, err := locate(src, d, `"""`)
		assert.ErrorIs(t, err, ErrUnterminatedDocstring)

		report := &Report{}
		_, _, err = e.document(src, d, docstring.Google, `"""`, report)
		assert.ErrorIs(t, err, ErrUnterminatedDocstring)
	})

	t.Run("Failure wraps its cause", func(t *testing.T) {
		report := &Report{}
		report.fail(extractor.Declaration{Name: "f", StartLine: 3}, ErrUnterminatedDocstring)
		assert.ErrorIs(t, report.Err(), ErrUnterminatedDocstring)
		assert.EqualError(t, report.Failures[0], "f (line 4): unterminated docstring")
		assert.NoError(t, (&Report{}).Err())
	})
}

func TestConvertSource(t *testing.T) {
	e, _ := newTestEngine(testConfig())
	src := "def f(a):\n" +
		"    \"\"\"Do it.\n" +
		"\n" +
		"    Args:\n" +
		"        a (int): the first\n" +
		"    \"\"\"\n" +
		"    return a\n" +
		"\n" +
		"\n" +
		"def g():\n" +
		"    \"\"\"Plain summary.\"\"\"\n"

	out, report, err := e.ConvertSource("mod.py", []byte(src), docstring.Numpy)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Converted)

	want := "def f(a):\n" +
		"    \"\"\"Do it.\n" +
		"\n" +
		"    Parameters\n" +
		"    ----------\n" +
		"    a : int\n" +
		"        the first\n" +
		"    \"\"\"\n" +
		"    return a\n" +
		"\n" +
		"\n" +
		"def g():\n" +
		"    \"\"\"Plain summary.\"\"\"\n"
	assert.Equal(t, want, string(out))

	again, report, err := e.ConvertSource("mod.py", out, docstring.Numpy)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Converted)
	assert.Equal(t, string(out), string(again))
}

func TestDetectSource(t *testing.T) {
	e, _ := newTestEngine(testConfig())

	style, ok, err := e.DetectSource([]byte("def f(a):\n    \"\"\"Do it.\n\n    :param a: value\n    \"\"\"\n"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, docstring.Sphinx, style)

	_, ok, err = e.DetectSource([]byte("x = 1\n"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectDeclarations(t *testing.T) {
	src := "class A:\n" +
		"    def m(self):\n" +
		"        return 1\n" +
		"\n" +
		"x = 2\n"
	decls, err := extractor.FindDeclarations([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, []int{0, 1, 2}, selectDeclarations(decls, nil))
	assert.Equal(t, []int{2}, selectDeclarations(decls, []int{2}))
	assert.Equal(t, []int{1, 2}, selectDeclarations(decls, []int{2, 0, 1}))
	assert.Equal(t, []int{0}, selectDeclarations(decls, []int{4}))
	assert.Empty(t, selectDeclarations(decls, []int{99}))
}
