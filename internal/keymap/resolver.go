package keymap

import (
	"slices"
	"strings"
)

// Resolver looks up actions by key and keys by action.
type Resolver struct {
	action map[string]Action
	keys   map[Action][]string
}

// NewResolver indexes bindings. A key bound twice keeps its last action.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		action: make(map[string]Action),
		keys:   make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.action[k] = b.Action
			if !slices.Contains(r.keys[b.Action], k) {
				r.keys[b.Action] = append(r.keys[b.Action], k)
			}
		}
	}
	return r
}

// Resolve returns the action bound to key, or "" if none is.
func (r *Resolver) Resolve(key string) Action { return r.action[key] }

// KeysFor returns the keys bound to action, in binding order.
func (r *Resolver) KeysFor(action Action) []string { return r.keys[action] }

// Help lists "keys  description" for every binding in context. The literal
// space key is left out in favour of its "space" alias.
func (r *Resolver) Help(context string) []string {
	var lines []string
	for _, b := range ByContext(context) {
		keys := slices.DeleteFunc(slices.Clone(b.Keys), func(k string) bool { return k == " " })
		lines = append(lines, strings.Join(keys, "/")+"  "+b.Description)
	}
	return lines
}
