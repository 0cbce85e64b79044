package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Node is a nested mapping whose keys are folded to uppercase on every read
// and write. Values are scalars, sequences, or child *Node values. A Node
// owns its children exclusively; the structure is always a tree.
type Node struct {
	items  map[string]any
	frozen bool
}

// NewNode builds a Node from data, folding every key recursively. A nil map
// yields an empty Node.
func NewNode(data map[string]any) *Node {
	n := &Node{items: make(map[string]any, len(data))}
	for _, key := range sortedKeys(data) {
		n.Set(key, data[key])
	}
	return n
}

// Set stores value under the folded key. A mapping value merges key by key
// into an existing child Node instead of replacing it; against anything else
// the mapping is wrapped into a fresh Node. Scalars and sequences replace
// the previous value wholesale. Set fails with ErrFrozen once the Node is
// sealed.
func (n *Node) Set(key string, value any) error {
	if n.frozen {
		return ErrFrozen
	}
	key = fold(key)

	m, ok := asMapping(value)
	if !ok {
		n.items[key] = value
		return nil
	}

	child, ok := n.items[key].(*Node)
	if !ok {
		child = &Node{items: make(map[string]any, len(m))}
		n.items[key] = child
	}
	for _, k := range sortedKeys(m) {
		if err := child.Set(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under the folded key. The boolean reports
// presence, so a stored nil is distinguishable from an absent key.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.items[fold(key)]
	return v, ok
}

// GetDefault returns the value stored under key, or fallback when absent.
func (n *Node) GetDefault(key string, fallback any) any {
	if v, ok := n.Get(key); ok {
		return v
	}
	return fallback
}

// Delete removes key from the Node. It fails with ErrFrozen once sealed.
func (n *Node) Delete(key string) error {
	if n.frozen {
		return ErrFrozen
	}
	delete(n.items, fold(key))
	return nil
}

// Keys returns the folded keys in sorted order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.items))
	for k := range n.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys at this level.
func (n *Node) Len() int { return len(n.items) }

// String renders the tree as an indented brace block with sorted keys.
// Strings are quoted, child Nodes nest, everything else uses its natural
// form.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	pad := strings.Repeat(" ", (depth+1)*4)
	b.WriteString("{\n")
	for _, key := range n.Keys() {
		switch v := n.items[key].(type) {
		case *Node:
			b.WriteString(pad + key + ": ")
			v.write(b, depth+1)
			b.WriteString("\n")
		case string:
			fmt.Fprintf(b, "%s%s: %q,\n", pad, key, v)
		default:
			fmt.Fprintf(b, "%s%s: %v,\n", pad, key, v)
		}
	}
	b.WriteString(strings.Repeat(" ", depth*4) + "}")
}

// freeze seals the Node and every descendant against further writes.
func (n *Node) freeze() {
	n.frozen = true
	for _, v := range n.items {
		if child, ok := v.(*Node); ok {
			child.freeze()
		}
	}
}

func fold(key string) string { return strings.ToUpper(key) }

// asMapping recognizes the mapping shapes the JSON and YAML decoders
// produce. Non-string keys are stringified.
func asMapping(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[cast.ToString(k)] = v
		}
		return out, true
	}
	return nil, false
}

// sortedKeys fixes the application order of a decoded mapping. Two raw keys
// folding to the same name would otherwise race on map iteration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
