package scraper

import (
	"strings"
	"time"
)

// fakePage is an in-memory Session used to drive the pipeline without a
// browser. Selector support covers exactly what the pipeline queries:
// comma-separated lists, descendant combinators, tag/class compounds, and
// [attr="v"] / [attr*="v"] / [attr] conditions.
type fakePage struct {
	root     *fakeNode
	registry []*fakeNode

	// heights[k] is the document height after k scrolls; the last entry
	// repeats once the page stops growing.
	heights     []int64
	scrollCalls int

	authenticated bool
	navigated     []string
	navErr        error
}

type fakeNode struct {
	page     *fakePage
	parent   *fakeNode
	tag      string
	attrs    map[string]string
	text     string
	children []*fakeNode
	removed  bool
	handle   ElementHandle
	tracked  bool
	onClick  func()
}

func newFakePage(heights ...int64) *fakePage {
	if len(heights) == 0 {
		heights = []int64{1000}
	}
	p := &fakePage{
		heights:       heights,
		authenticated: true,
	}
	p.root = &fakeNode{page: p, tag: "body", attrs: map[string]string{}}
	return p
}

func (p *fakePage) add(parent *fakeNode, tag string, attrs map[string]string, text string) *fakeNode {
	if parent == nil {
		parent = p.root
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	n := &fakeNode{page: p, parent: parent, tag: tag, attrs: attrs, text: text}
	parent.children = append(parent.children, n)
	return n
}

func (p *fakePage) remove(n *fakeNode) {
	n.removed = true
	for _, child := range n.children {
		p.remove(child)
	}
	if n.parent != nil {
		kept := n.parent.children[:0]
		for _, sibling := range n.parent.children {
			if sibling != n {
				kept = append(kept, sibling)
			}
		}
		n.parent.children = kept
	}
}

func (p *fakePage) handleFor(n *fakeNode) ElementHandle {
	if !n.tracked {
		n.handle = ElementHandle(len(p.registry))
		n.tracked = true
		p.registry = append(p.registry, n)
	}
	return n.handle
}

func (p *fakePage) resolve(h ElementHandle) *fakeNode {
	if h == Document {
		return p.root
	}
	if int(h) < 0 || int(h) >= len(p.registry) {
		return nil
	}
	n := p.registry[int(h)]
	if n.removed {
		return nil
	}
	return n
}

// Session implementation

func (p *fakePage) FindAll(scope ElementHandle, selector string) []ElementHandle {
	root := p.resolve(scope)
	if root == nil {
		return nil
	}

	sequences := parseSelectorList(selector)
	var out []ElementHandle
	var walk func(n *fakeNode)
	walk = func(n *fakeNode) {
		for _, child := range n.children {
			for _, seq := range sequences {
				if matchesSequence(child, seq) {
					out = append(out, p.handleFor(child))
					break
				}
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

func (p *fakePage) FindOne(scope ElementHandle, selector string, timeout time.Duration) (ElementHandle, error) {
	// The fake page has no asynchronous mutation, so polling reduces to a
	// single check regardless of the timeout ceiling.
	if els := p.FindAll(scope, selector); len(els) > 0 {
		return els[0], nil
	}
	return 0, ErrNotFound
}

func (p *fakePage) Text(h ElementHandle) (string, error) {
	n := p.resolve(h)
	if n == nil {
		return "", ErrElementGone
	}
	return n.text, nil
}

func (p *fakePage) Attribute(h ElementHandle, name string) (string, bool, error) {
	n := p.resolve(h)
	if n == nil {
		return "", false, ErrElementGone
	}
	v, ok := n.attrs[name]
	return v, ok, nil
}

func (p *fakePage) Click(h ElementHandle) error {
	n := p.resolve(h)
	if n == nil {
		return ErrElementGone
	}
	if n.onClick != nil {
		n.onClick()
	}
	return nil
}

func (p *fakePage) ScrollIntoView(h ElementHandle) error {
	if p.resolve(h) == nil {
		return ErrElementGone
	}
	return nil
}

func (p *fakePage) ScrollToBottom() error {
	p.scrollCalls++
	return nil
}

func (p *fakePage) DocumentHeight() (int64, error) {
	idx := p.scrollCalls
	if idx >= len(p.heights) {
		idx = len(p.heights) - 1
	}
	return p.heights[idx], nil
}

func (p *fakePage) Navigate(url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) Authenticated() bool {
	return p.authenticated
}

var _ Session = (*fakePage)(nil)

// Minimal CSS selector matching

type simpleSelector struct {
	tag     string
	classes []string
	attrs   []attrCondition
}

type attrCondition struct {
	name  string
	op    string // "", "=" or "*="
	value string
}

func parseSelectorList(s string) [][]simpleSelector {
	var sequences [][]simpleSelector
	for _, alternative := range strings.Split(s, ",") {
		var seq []simpleSelector
		for _, compound := range strings.Fields(alternative) {
			seq = append(seq, parseCompound(compound))
		}
		if len(seq) > 0 {
			sequences = append(sequences, seq)
		}
	}
	return sequences
}

func parseCompound(s string) simpleSelector {
	var sel simpleSelector
	i := 0
	for i < len(s) && s[i] != '.' && s[i] != '[' {
		i++
	}
	sel.tag = s[:i]
	for i < len(s) {
		switch s[i] {
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			sel.classes = append(sel.classes, s[i+1:j])
			i = j
		case '[':
			end := strings.IndexByte(s[i:], ']') + i
			body := s[i+1 : end]
			cond := attrCondition{}
			if k := strings.Index(body, "*="); k >= 0 {
				cond.name, cond.op, cond.value = body[:k], "*=", unquote(body[k+2:])
			} else if k := strings.IndexByte(body, '='); k >= 0 {
				cond.name, cond.op, cond.value = body[:k], "=", unquote(body[k+1:])
			} else {
				cond.name = body
			}
			sel.attrs = append(sel.attrs, cond)
			i = end + 1
		default:
			i++
		}
	}
	return sel
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

func (sel simpleSelector) matches(n *fakeNode) bool {
	if sel.tag != "" && sel.tag != n.tag {
		return false
	}
	if len(sel.classes) > 0 {
		nodeClasses := strings.Fields(n.attrs["class"])
		for _, want := range sel.classes {
			found := false
			for _, have := range nodeClasses {
				if have == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, cond := range sel.attrs {
		v, ok := n.attrs[cond.name]
		switch cond.op {
		case "":
			if !ok {
				return false
			}
		case "=":
			if !ok || v != cond.value {
				return false
			}
		case "*=":
			if !ok || !strings.Contains(v, cond.value) {
				return false
			}
		}
	}
	return true
}

func matchesSequence(n *fakeNode, seq []simpleSelector) bool {
	if !seq[len(seq)-1].matches(n) {
		return false
	}
	rest := seq[:len(seq)-1]
	for ancestor := n.parent; len(rest) > 0 && ancestor != nil; ancestor = ancestor.parent {
		if rest[len(rest)-1].matches(ancestor) {
			rest = rest[:len(rest)-1]
		}
	}
	return len(rest) == 0
}
