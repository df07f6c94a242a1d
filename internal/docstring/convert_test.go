package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const convertSource = "Summary.\n\n" +
	"    Args:\n" +
	"        a (int): the first\n" +
	"            more\n" +
	"\n" +
	"    Returns:\n" +
	"        bool: ok\n" +
	"    "

func TestConvert(t *testing.T) {
	src, err := Parse(convertSource, Google)
	require.NoError(t, err)

	t.Run("to numpy", func(t *testing.T) {
		got, err := Convert(src, Numpy)
		require.NoError(t, err)

		want := "Summary.\n\n" +
			"    Parameters\n" +
			"    ----------\n" +
			"    a : int\n" +
			"        the first\n" +
			"        more\n" +
			"\n" +
			"    Returns\n" +
			"    -------\n" +
			"    bool\n" +
			"        ok\n" +
			"    "
		assert.Equal(t, want, got.Format("    "))
		assert.Equal(t, Numpy, got.Style())

		back, err := Convert(got, Google)
		require.NoError(t, err)
		assert.Equal(t, convertSource, back.Format("    "))
	})

	t.Run("to sphinx", func(t *testing.T) {
		got, err := Convert(src, Sphinx)
		require.NoError(t, err)

		want := "Summary.\n\n" +
			"    :param a: the first\n" +
			"        more\n" +
			"    :type a: int\n" +
			"    :returns: ok\n" +
			"    :rtype: bool\n" +
			"    "
		assert.Equal(t, want, got.Format("    "))
	})

	t.Run("source is untouched", func(t *testing.T) {
		assert.Equal(t, convertSource, src.Format("    "))
	})

	t.Run("unknown style", func(t *testing.T) {
		_, err := Convert(src, Style(9))
		assert.ErrorIs(t, err, ErrUnknownStyle)
	})
}

func TestConvert_DropsEmptySections(t *testing.T) {
	src, err := Parse("Summary.\n\n    Args:\n        a: first\n    ", Google)
	require.NoError(t, err)
	src.UpdateParameters(nil)
	src.sections.Delete("Deleted Parameters")

	got, err := Convert(src, Numpy)
	require.NoError(t, err)
	assert.Nil(t, got.Section("Parameters"))
	assert.Equal(t, "Summary.\n    ", got.Format("    "))
}
