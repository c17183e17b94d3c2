// Package markup parses the <r:...> tag markup used in page parts and
// layouts into a tree of nodes. Everything outside an r-tag is literal
// text and is preserved byte for byte.
package markup

import (
	"fmt"
	"strings"
)

// Node is one parsed unit of markup: literal text when Name is empty,
// otherwise a namespaced tag with attributes and child nodes.
type Node struct {
	// Text holds the literal content of a text node.
	Text string
	// Name is the colon-namespaced tag name, e.g. "shopping:cart:total".
	Name string
	// Attrs maps attribute names to their unquoted values.
	Attrs map[string]string
	// Children holds the nested nodes of a container tag.
	Children []*Node
	// Raw is the original source of the whole element, used for literal
	// passthrough of tags no handler is registered for.
	Raw string
}

// IsText reports whether the node is a literal text node.
func (n *Node) IsText() bool { return n.Name == "" }

// Attr returns the named attribute value, or "" when absent.
func (n *Node) Attr(name string) string { return n.Attrs[name] }

// AttrDefault returns the named attribute value, or def when absent or empty.
func (n *Node) AttrDefault(name, def string) string {
	if v := n.Attrs[name]; v != "" {
		return v
	}
	return def
}

const (
	openMarker  = "<r:"
	closeMarker = "</r:"
)

// Parse parses source into a node sequence. Tags must be well formed:
// every container tag needs a matching closer and attribute values must
// be quoted.
func Parse(source string) ([]*Node, error) {
	p := &parser{src: source}
	nodes, err := p.parseNodes("")
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// Only a stray closer stops parseNodes early at top level.
		return nil, p.errorf("unexpected closing tag")
	}
	return nodes, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return fmt.Errorf("markup: line %d: %s", line, fmt.Sprintf(format, args...))
}

// parseNodes consumes nodes until the closer for the given tag name, or
// until end of input when name is empty. The closer itself is not consumed.
func (p *parser) parseNodes(name string) ([]*Node, error) {
	var nodes []*Node
	for p.pos < len(p.src) {
		next, closing := p.nextMarker()
		if next < 0 {
			if name != "" {
				return nil, p.errorf("missing closing tag for %q", name)
			}
			nodes = appendText(nodes, p.src[p.pos:])
			p.pos = len(p.src)
			return nodes, nil
		}
		nodes = appendText(nodes, p.src[p.pos:next])
		p.pos = next
		if closing {
			// Caller consumes the closer; a stray one at top level is
			// reported by Parse.
			return nodes, nil
		}
		node, err := p.parseTag()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if name != "" {
		return nil, p.errorf("missing closing tag for %q", name)
	}
	return nodes, nil
}

// nextMarker finds the next tag marker at or after the current position.
func (p *parser) nextMarker() (int, bool) {
	openAt := strings.Index(p.src[p.pos:], openMarker)
	closeAt := strings.Index(p.src[p.pos:], closeMarker)
	switch {
	case openAt < 0 && closeAt < 0:
		return -1, false
	case openAt < 0:
		return p.pos + closeAt, true
	case closeAt < 0:
		return p.pos + openAt, false
	case closeAt < openAt:
		return p.pos + closeAt, true
	default:
		return p.pos + openAt, false
	}
}

// parseTag parses one complete element starting at an open marker.
func (p *parser) parseTag() (*Node, error) {
	start := p.pos
	p.pos += len(openMarker)
	name := p.scanName()
	if name == "" {
		return nil, p.errorf("missing tag name")
	}
	attrs, err := p.parseAttrs()
	if err != nil {
		return nil, err
	}
	node := &Node{Name: name, Attrs: attrs}

	if strings.HasPrefix(p.src[p.pos:], "/>") {
		p.pos += 2
		node.Raw = p.src[start:p.pos]
		return node, nil
	}
	if !strings.HasPrefix(p.src[p.pos:], ">") {
		return nil, p.errorf("malformed tag %q", name)
	}
	p.pos++

	children, err := p.parseNodes(name)
	if err != nil {
		return nil, err
	}
	closer := closeMarker + name + ">"
	if !strings.HasPrefix(p.src[p.pos:], closer) {
		return nil, p.errorf("mismatched closing tag for %q", name)
	}
	p.pos += len(closer)
	node.Children = children
	node.Raw = p.src[start:p.pos]
	return node, nil
}

func (p *parser) scanName() string {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parseAttrs() (map[string]string, error) {
	var attrs map[string]string
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated tag")
		}
		if c := p.src[p.pos]; c == '>' || c == '/' {
			return attrs, nil
		}
		name := p.scanAttrName()
		if name == "" {
			return nil, p.errorf("malformed attribute")
		}
		if p.pos >= len(p.src) || p.src[p.pos] != '=' {
			return nil, p.errorf("attribute %q missing value", name)
		}
		p.pos++
		value, err := p.scanQuoted(name)
		if err != nil {
			return nil, err
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[name] = value
	}
}

func (p *parser) scanAttrName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '=' || c == ' ' || c == '\t' || c == '\n' || c == '>' || c == '/' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) scanQuoted(attr string) (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errorf("attribute %q missing value", attr)
	}
	quote := p.src[p.pos]
	if quote != '"' && quote != '\'' {
		return "", p.errorf("attribute %q value must be quoted", attr)
	}
	p.pos++
	end := strings.IndexByte(p.src[p.pos:], quote)
	if end < 0 {
		return "", p.errorf("attribute %q value not terminated", attr)
	}
	value := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	return value, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == ':' || c == '_'
}

func appendText(nodes []*Node, text string) []*Node {
	if text == "" {
		return nodes
	}
	return append(nodes, &Node{Text: text})
}
