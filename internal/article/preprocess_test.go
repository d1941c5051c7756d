package article

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessBody_CollapsesSoftBreaks(t *testing.T) {
	in := "First line\nsecond line\n\nNew paragraph\ncontinues"
	assert.Equal(t, "First line second line\n\nNew paragraph continues", PreprocessBody(in))
}

func TestPreprocessBody_CodeFencePreserved(t *testing.T) {
	fence := "```go\nfunc main() {\n\n\tfmt.Println(\"hi\")\n\n}\n```"
	in := "Intro text\nwraps here\n\n" + fence + "\n\nOutro\nline"

	out := PreprocessBody(in)
	assert.Contains(t, out, fence)
	assert.True(t, strings.HasPrefix(out, "Intro text wraps here\n\n"))
	assert.True(t, strings.HasSuffix(out, "\n\nOutro line"))
}

func TestPreprocessBody_UnclosedFenceRunsToEnd(t *testing.T) {
	in := "Text\n\n```\nline one\nline two"
	assert.Equal(t, in, PreprocessBody(in))
}

func TestPreprocessBody_StripsImports(t *testing.T) {
	in := strings.Join([]string{
		"import Chart from './Chart'",
		"import './styles.css';",
		`import { YouTube, Aside } from "components"`,
		"import * as X from 'x'",
		"Important things",
		"```js",
		"import x from 'y'",
		"```",
	}, "\n")

	out := PreprocessBody(in)
	assert.NotContains(t, out, "Chart")
	assert.NotContains(t, out, "styles.css")
	assert.NotContains(t, out, "YouTube")
	assert.Contains(t, out, "Important things")
	assert.Contains(t, out, "```js\nimport x from 'y'\n```")
}

func TestPreprocessBody_BlockConstructsNotJoined(t *testing.T) {
	in := strings.Join([]string{
		"# Heading",
		"Text under heading",
		"- item one",
		"- item two",
		"1. ordered",
		"> quote",
		"| a | b |",
		"| - | - |",
		`<YouTube id="abc" />`,
		"After embed",
	}, "\n")

	assert.Equal(t, in, PreprocessBody(in))
}

func TestPreprocessBody_SetextHeadingsNotJoined(t *testing.T) {
	in := "Heading One\n===========\nText after\n\nHeading Two\n--\nMore text"
	assert.Equal(t, in, PreprocessBody(in))
}

func TestPreprocessBody_HardBreakKept(t *testing.T) {
	in := "Line with hard break  \nnext"
	assert.Equal(t, in, PreprocessBody(in))
}

func TestPreprocessBody_NormalizesCRLF(t *testing.T) {
	assert.Equal(t, "a b", PreprocessBody("a\r\nb"))
}
