// =============================================================================
// XML to CSV Converter - XML Tree Module
// =============================================================================
//
// This module loads the source XML document into memory and exposes the root's
// direct children as Items. An Item only knows two things about its element:
//   - its attributes (name -> value)
//   - its direct child elements (ordered, looked up by tag)
//
// Anything deeper than one level is not flattened. Text of a child element is
// the character data that immediately follows its start tag.
//
// PARSING:
//   Parsing is done with github.com/beevik/etree. Input is first checked for
//   well-formedness with a strict encoding/xml token pass, and documents that
//   declare a non UTF-8 encoding are decoded with golang.org/x/net/html/charset.
//
// =============================================================================

package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

var (
	// ErrNoRoot is returned when the input contains no root element.
	ErrNoRoot = errors.New("document has no root element")

	// ErrMultipleRoots is returned when elements or text follow the root element.
	ErrMultipleRoots = errors.New("junk after document element")
)

// utf8BOM is stripped from the start of the input.
var utf8BOM = []byte("\xef\xbb\xbf")

// =============================================================================
// DOCUMENT STRUCTURE
// =============================================================================

// Document is the parsed source: the root tag and its items in document order.
type Document struct {
	// RootTag is the (prefixed) tag of the root element.
	RootTag string

	// Items are the root's direct child elements.
	Items []*Item
}

// Item is one direct child of the root element.
type Item struct {
	// Tag is the (prefixed) tag of the item element itself.
	Tag string

	attrs     map[string]string
	attrOrder []string
	children  []Field
}

// Field is a direct child element of an Item reduced to its tag and text.
type Field struct {
	Tag  string
	Text string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads and parses the XML file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads an XML document from r.
//
// RETURNS:
//   - The parsed Document.
//   - An error if the input is not well-formed XML or has no root element.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}

	return fromElement(root), nil
}

// checkWellFormed runs a strict token pass over data. etree builds its tree
// from raw tokens, so tag matching and the attribute and prefix rules are
// enforced here.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var stack []openElement
	roots := 0
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("%w: <%s> at offset %d", ErrMultipleRoots, qualifiedName(t.Name), dec.InputOffset())
				}
			}
			el, err := openStartElement(t, stack)
			if err != nil {
				return fmt.Errorf("%w at offset %d", err, dec.InputOffset())
			}
			stack = append(stack, el)
		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 || stack[len(stack)-1].name != name {
				return fmt.Errorf("unexpected end element </%s> at offset %d", name, dec.InputOffset())
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: text at offset %d", ErrMultipleRoots, dec.InputOffset())
			}
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("unexpected EOF: <%s> is not closed", stack[len(stack)-1].name)
	}
	if roots == 0 {
		return ErrNoRoot
	}
	return nil
}

// openElement is an element on the well-formedness stack together with the
// prefixes it declares.
type openElement struct {
	name     string
	prefixes map[string]struct{}
}

// openStartElement validates the attributes and prefixes of t against the
// declarations in scope.
func openStartElement(t xml.StartElement, stack []openElement) (openElement, error) {
	el := openElement{name: qualifiedName(t.Name)}

	seen := make(map[string]struct{}, len(t.Attr))
	for _, a := range t.Attr {
		key := qualifiedName(a.Name)
		if _, dup := seen[key]; dup {
			return el, fmt.Errorf("duplicate attribute %q on <%s>", key, el.name)
		}
		seen[key] = struct{}{}

		if a.Name.Space == "xmlns" {
			if el.prefixes == nil {
				el.prefixes = make(map[string]struct{})
			}
			el.prefixes[a.Name.Local] = struct{}{}
		}
	}

	if !prefixBound(t.Name.Space, el, stack) {
		return el, fmt.Errorf("unbound prefix %q on <%s>", t.Name.Space, el.name)
	}
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		if !prefixBound(a.Name.Space, el, stack) {
			return el, fmt.Errorf("unbound prefix %q on attribute %q", a.Name.Space, qualifiedName(a.Name))
		}
	}

	return el, nil
}

// prefixBound reports whether prefix is declared by el or an enclosing element.
func prefixBound(prefix string, el openElement, stack []openElement) bool {
	if prefix == "" || prefix == "xml" {
		return true
	}
	if _, ok := el.prefixes[prefix]; ok {
		return true
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if _, ok := stack[i].prefixes[prefix]; ok {
			return true
		}
	}
	return false
}

// qualifiedName renders a raw name as prefix:local.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// fromElement converts the etree root into a Document.
func fromElement(root *etree.Element) *Document {
	elems := root.ChildElements()
	doc := &Document{
		RootTag: root.FullTag(),
		Items:   make([]*Item, 0, len(elems)),
	}
	for _, el := range elems {
		doc.Items = append(doc.Items, newItem(el))
	}
	return doc
}

// newItem captures the attributes and direct children of an item element.
func newItem(el *etree.Element) *Item {
	item := &Item{
		Tag:   el.FullTag(),
		attrs: make(map[string]string, len(el.Attr)),
	}

	for _, a := range el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		key := a.FullKey()
		item.attrs[key] = a.Value
		item.attrOrder = append(item.attrOrder, key)
	}

	for _, child := range el.ChildElements() {
		item.children = append(item.children, Field{
			Tag:  child.FullTag(),
			Text: child.Text(),
		})
	}

	return item
}

// isNamespaceDecl reports whether a is an xmlns or xmlns:* declaration.
func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// =============================================================================
// ITEM ACCESSORS
// =============================================================================

// AttrNames returns attribute names in document order.
func (it *Item) AttrNames() []string {
	return it.attrOrder
}

// Attr returns the value of the named attribute.
func (it *Item) Attr(name string) (string, bool) {
	v, ok := it.attrs[name]
	return v, ok
}

// Children returns the direct child elements in document order.
func (it *Item) Children() []Field {
	return it.children
}

// Child returns the first direct child with the given tag.
// Duplicate tags are not merged; later ones are ignored.
func (it *Item) Child(tag string) (Field, bool) {
	for _, c := range it.children {
		if c.Tag == tag {
			return c, true
		}
	}
	return Field{}, false
}

// Value resolves a column for this item. An attribute wins over a child
// element of the same name. The second return is false when neither exists.
func (it *Item) Value(column string) (string, bool) {
	if v, ok := it.Attr(column); ok {
		return v, true
	}
	if c, ok := it.Child(column); ok {
		return c.Text, true
	}
	return "", false
}
