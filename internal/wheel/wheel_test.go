package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"json4", "json4"},
		{"Json4", "json4"},
		{"json4.extra_pkg", "json4-extra-pkg"},
		{"JSON4--Extra..Pkg", "json4-extra-pkg"},
		{"  json4 ", "json4"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "input %q", tc.in)
	}
}

func TestEscapeName(t *testing.T) {
	assert.Equal(t, "json4_extra", EscapeName("json4-extra"))
	assert.Equal(t, "json4", EscapeName("json4"))
}

func TestParseFilename(t *testing.T) {
	fn, err := ParseFilename("json4-1.0.2-py3-none-any.whl")
	require.NoError(t, err)
	assert.Equal(t, "json4", fn.Name)
	assert.Equal(t, "1.0.2", fn.Version)
	assert.Empty(t, fn.Build)
	assert.Equal(t, "py3", fn.PythonTag)
	assert.Equal(t, "none", fn.ABITag)
	assert.Equal(t, "any", fn.PlatformTag)
	assert.Equal(t, "json4-1.0.2-py3-none-any.whl", fn.String())
}

func TestParseFilenameWithBuildTag(t *testing.T) {
	fn, err := ParseFilename("json4-1.0.2-1-py3-none-any.whl")
	require.NoError(t, err)
	assert.Equal(t, "1", fn.Build)
	assert.Equal(t, "json4-1.0.2-1-py3-none-any.whl", fn.String())
}

func TestParseFilenameRejectsNonWheels(t *testing.T) {
	_, err := ParseFilename("json4-1.0.2.tar.gz")
	assert.Error(t, err)

	_, err = ParseFilename("json4-1.0.2.whl")
	assert.Error(t, err, "too few fields")
}

func TestNormalizedNameMatchesEscapedForm(t *testing.T) {
	fn, err := ParseFilename("Json4_Extra-1.0.0-py3-none-any.whl")
	require.NoError(t, err)
	assert.Equal(t, NormalizeName("json4-extra"), fn.NormalizedName())
}
