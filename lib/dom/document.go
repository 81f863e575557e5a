package dom

// Document is the root of a connected tree.
type Document struct {
	root *Element
	body *Element
}

// NewDocument creates a document with a connected <body>.
func NewDocument() *Document {
	root := NewElement("html")
	root.connected = true
	body := NewElement("body")
	_ = root.AppendChild(body)
	return &Document{root: root, body: body}
}

// Body returns the document body.
func (d *Document) Body() *Element { return d.body }

// Root returns the document element.
func (d *Document) Root() *Element { return d.root }

// Append inserts el at the end of the body.
func (d *Document) Append(el *Element) error {
	return d.body.AppendChild(el)
}

// Remove detaches el from wherever it sits in the document.
func (d *Document) Remove(el *Element) bool {
	p := el.Parent()
	if p == nil {
		return false
	}
	return p.RemoveChild(el)
}
