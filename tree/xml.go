package tree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Marshal encodes the node and its descendants as indented XML.
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := Encode(&buf, n); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Encode writes the node as indented XML without a header.
func Encode(w io.Writer, n *Node) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("failed to encode %s: %w", n.Tag, err)
	}
	return enc.Flush()
}

// Unmarshal decodes the first element in data into a node. Text content and
// comments are ignored.
func Unmarshal(data []byte) (*Node, error) {
	n := &Node{}
	if err := xml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return n, nil
}

// MarshalXML implements xml.Marshaler.
func (n *Node) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := e.Encode(c); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// UnmarshalXML implements xml.Unmarshaler.
func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.Tag = start.Name.Local
	n.Attrs = n.Attrs[:0]
	for _, a := range start.Attr {
		n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}
	n.Children = nil

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &Node{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		case xml.EndElement:
			return nil
		}
	}
}
