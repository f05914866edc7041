package xmltree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestParseItems(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0"?>
<root>
  <!-- leading comment -->
  <item id="1" kind="a"><name>Alice</name><empty/></item>
  stray text
  <item id="2"><age>30</age></item>
</root>`)

	assert.Equal(t, "root", doc.RootTag)
	require.Len(t, doc.Items, 2)

	first := doc.Items[0]
	assert.Equal(t, "item", first.Tag)
	assert.Equal(t, []string{"id", "kind"}, first.AttrNames())
	assert.Equal(t, []Field{{Tag: "name", Text: "Alice"}, {Tag: "empty", Text: ""}}, first.Children())

	v, ok := first.Attr("kind")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = doc.Items[1].Attr("kind")
	assert.False(t, ok)
}

func TestItemValue(t *testing.T) {
	doc := mustParse(t, `<root>
  <item name="attr"><name>child</name><dup>first</dup><dup>second</dup><note/></item>
</root>`)
	item := doc.Items[0]

	tests := []struct {
		column string
		want   string
		found  bool
	}{
		{column: "name", want: "attr", found: true},
		{column: "dup", want: "first", found: true},
		{column: "note", want: "", found: true},
		{column: "missing", want: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got, found := item.Value(tt.column)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestChildTextStopsAtFirstElement(t *testing.T) {
	doc := mustParse(t, `<root><item><desc>  lead <b>bold</b> tail</desc></item></root>`)
	got, ok := doc.Items[0].Child("desc")
	require.True(t, ok)
	assert.Equal(t, "  lead ", got.Text)
}

func TestNamespaces(t *testing.T) {
	doc := mustParse(t, `<root xmlns="urn:default" xmlns:dc="urn:dc">
  <item xmlns:x="urn:x" x:id="7"><dc:title>T</dc:title></item>
</root>`)

	item := doc.Items[0]
	assert.Equal(t, []string{"x:id"}, item.AttrNames(), "namespace declarations are not attributes")
	v, ok := item.Value("dc:title")
	assert.True(t, ok)
	assert.Equal(t, "T", v)
}

func TestCharsetDecoding(t *testing.T) {
	// "café" in ISO-8859-1.
	src := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><root><item name=\"caf\xe9\"/></root>")
	doc, err := Parse(bytes.NewReader(src))
	require.NoError(t, err)

	v, _ := doc.Items[0].Attr("name")
	assert.Equal(t, "café", v)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty input", src: ""},
		{name: "whitespace only", src: "   \n"},
		{name: "mismatched tags", src: "<root><item></root>"},
		{name: "unclosed root", src: "<root><item/>"},
		{name: "not xml", src: "id,name\n1,Alice\n"},
		{name: "two roots", src: "<a/><b/>"},
		{name: "text after root", src: "<a/>trailing"},
		{name: "undefined entity", src: "<a>&nbsp;</a>"},
		{name: "duplicate attribute", src: `<root><item a="1" a="2"/></root>`},
		{name: "duplicate prefixed attribute", src: `<root xmlns:x="urn:x"><item x:a="1" x:a="2"/></root>`},
		{name: "unbound element prefix", src: `<root><x:item/></root>`},
		{name: "unbound attribute prefix", src: `<root><item x:id="1"/></root>`},
		{name: "prefix out of scope", src: `<root><a xmlns:x="urn:x"/><x:item/></root>`},
		{name: "end tag without start", src: "<root></item></root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestByteOrderMark(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "with declaration", src: "\ufeff<?xml version=\"1.0\" encoding=\"UTF-8\"?><root><item id=\"1\"/></root>"},
		{name: "without declaration", src: "\ufeff<root><item id=\"1\"/></root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.src)
			require.Len(t, doc.Items, 1)
			v, ok := doc.Items[0].Attr("id")
			assert.True(t, ok)
			assert.Equal(t, "1", v)
		})
	}
}

func TestPrefixDeclaredOnAncestor(t *testing.T) {
	doc := mustParse(t, `<root xmlns:x="urn:x"><item x:id="1"><x:name>A</x:name></item></root>`)
	v, ok := doc.Items[0].Value("x:name")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	mustParse(t, `<root><item xml:lang="en"/></root>`)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<root><item a="1"/><item a="2"/><item a="3"/></root>`), 0o644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Items, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestTrailingMiscIsAccepted(t *testing.T) {
	doc := mustParse(t, "<root><item/></root>\n<!-- done -->\n")
	assert.Len(t, doc.Items, 1)
}

func TestMultipleRootsError(t *testing.T) {
	_, err := Parse(strings.NewReader("<a/><b/>"))
	assert.ErrorIs(t, err, ErrMultipleRoots)

	_, err = Parse(strings.NewReader("<?xml version=\"1.0\"?>\n"))
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestEmptyRoot(t *testing.T) {
	doc := mustParse(t, `<root/>`)
	assert.Empty(t, doc.Items)
}
