package readmecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReadme = `# json4

JSON helpers for [echarts](https://echarts.apache.org/) option dictionaries.

## Install

` + "```" + `
pip install json4
` + "```" + `

See the [docs](https://example.org/json4) for details.
`

func TestCheckCountsStructure(t *testing.T) {
	report, err := Check([]byte(sampleReadme))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Headings)
	assert.Equal(t, 2, report.Links)
	assert.Positive(t, report.Bytes)
}

func TestCheckEmptyDescription(t *testing.T) {
	_, err := Check([]byte("   \n\t"))
	assert.ErrorIs(t, err, ErrEmptyDescription)
}

func TestLinks(t *testing.T) {
	links, err := Links([]byte(sampleReadme))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://echarts.apache.org/", "https://example.org/json4"}, links)
}

func TestRenderPlainParagraph(t *testing.T) {
	out, err := Render([]byte("just text"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p>just text</p>")
}
