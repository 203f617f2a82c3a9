package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (trusted)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a view node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
}

// Props holds element attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Attr returns the string form of attribute key.
func (v *VNode) Attr(key string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	val, ok := v.Props[key]
	if !ok || val == nil {
		return "", false
	}
	switch x := val.(type) {
	case string:
		return x, true
	case bool:
		if x {
			return "", true
		}
		return "", false
	default:
		return fmt.Sprint(x), true
	}
}

// ID returns the element's id attribute.
func (v *VNode) ID() string {
	id, _ := v.Attr("id")
	return id
}

// HasClass reports whether class appears in the class attribute.
func (v *VNode) HasClass(class string) bool {
	classes, ok := v.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

// SetClass adds or removes class from the class attribute.
func (v *VNode) SetClass(class string, on bool) {
	if v == nil || v.Kind != KindElement {
		return
	}
	if v.Props == nil {
		v.Props = make(Props)
	}
	current, _ := v.Attr("class")
	var out []string
	for _, c := range strings.Fields(current) {
		if c != class {
			out = append(out, c)
		}
	}
	if on {
		out = append(out, class)
	}
	if len(out) == 0 {
		delete(v.Props, "class")
		return
	}
	v.Props["class"] = strings.Join(out, " ")
}

// Walk visits v and its descendants depth first. Returning false from fn
// skips the node's children.
func (v *VNode) Walk(fn func(*VNode) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// FindByID returns the first descendant (or v itself) with the given id.
func (v *VNode) FindByID(id string) *VNode {
	var found *VNode
	v.Walk(func(n *VNode) bool {
		if found != nil {
			return false
		}
		if n.Kind == KindElement && n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node for which match returns true, in document order.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.Walk(func(n *VNode) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// TextContent concatenates the text of all descendant text nodes.
func (v *VNode) TextContent() string {
	var b strings.Builder
	v.Walk(func(n *VNode) bool {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}
