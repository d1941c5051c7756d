package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_ByteOrderMark_Ignored(t *testing.T) {
	fm, body, had, err := Split([]byte("\xEF\xBB\xBF---\ntitle: x\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Equal(t, []byte("body"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: Hello\ntags: [a, b]\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello", fields["title"])
	assert.Equal(t, []any{"a", "b"}, fields["tags"])

	empty, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParse_FallsBackToLenient(t *testing.T) {
	// unquoted colon inside a value is invalid YAML
	raw := []byte("title: Contracts: a primer\nauthor: 'Jo'\ntags: [Ethics, \"AI\"]\n\tbad indent: x\n")

	fields, lenient := Parse(raw)
	require.True(t, lenient)
	assert.Equal(t, "Contracts: a primer", fields["title"])
	assert.Equal(t, "Jo", fields["author"])
	assert.Equal(t, []any{"Ethics", "AI"}, fields["tags"])
}

func TestParse_ValidYAMLNotLenient(t *testing.T) {
	fields, lenient := Parse([]byte("title: Fine\n"))
	assert.False(t, lenient)
	assert.Equal(t, "Fine", fields["title"])
}

func TestParseLenient_BlockList(t *testing.T) {
	fields := ParseLenient([]byte("# comment\ntags:\n  - one\n  - \"two\"\ncategory: Career\nnot a pair\n"))

	assert.Equal(t, []any{"one", "two"}, fields["tags"])
	assert.Equal(t, "Career", fields["category"])
	assert.Len(t, fields, 2)
}

func TestParseLenient_EmptyValueIsNil(t *testing.T) {
	fields := ParseLenient([]byte("description:\ntitle: T\n"))
	v, ok := fields["description"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
