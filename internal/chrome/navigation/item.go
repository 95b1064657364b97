package navigation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind identifies which shape a NavItem takes.
type Kind int

const (
	// KindLeaf is a plain page entry; it may become the active leaf.
	KindLeaf Kind = iota
	// KindGroup is a non-navigable container whose children live in NavItems.
	KindGroup
	// KindExpandable is an entry with nested pages under Routes.
	KindExpandable
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindExpandable:
		return "expandable"
	default:
		return "leaf"
	}
}

// NavItem is a single node of a bundle navigation tree.
type NavItem struct {
	Title    string    `json:"title" yaml:"title"`
	Href     string    `json:"href,omitempty" yaml:"href,omitempty"`
	Active   bool      `json:"active,omitempty" yaml:"active,omitempty"`
	GroupID  string    `json:"groupId,omitempty" yaml:"groupId,omitempty"`
	NavItems []NavItem `json:"navItems,omitempty" yaml:"navItems,omitempty"`
	Routes   []NavItem `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// Kind classifies the item. Groups take precedence over expandable entries.
func (i NavItem) Kind() Kind {
	switch {
	case i.IsGroup():
		return KindGroup
	case i.IsExpandable():
		return KindExpandable
	default:
		return KindLeaf
	}
}

// IsGroup reports whether the item only clusters its NavItems.
func (i NavItem) IsGroup() bool {
	return i.GroupID != ""
}

// IsExpandable reports whether the item has nested pages.
func (i NavItem) IsExpandable() bool {
	return len(i.Routes) > 0
}

// IsActiveLeaf reports whether the item qualifies as the active page.
func (i NavItem) IsActiveLeaf() bool {
	return i.Active && i.Href != ""
}

// Navigation is the root container of a bundle. Registrations arrive either as
// an object exposing navItems or, for older bundles, as a bare item list;
// Legacy records the latter so it can be written back in the same form.
type Navigation struct {
	NavItems []NavItem
	Legacy   bool
}

// Wrap builds a Navigation in the object form.
func Wrap(items ...NavItem) Navigation {
	return Navigation{NavItems: items}
}

// List builds a Navigation in the legacy bare-list form.
func List(items ...NavItem) Navigation {
	return Navigation{NavItems: items, Legacy: true}
}

// Items returns the top-level items regardless of form.
func (n Navigation) Items() []NavItem {
	return n.NavItems
}

type wrapped struct {
	NavItems []NavItem `json:"navItems" yaml:"navItems"`
}

// MarshalJSON writes the navigation in the form it was registered with.
func (n Navigation) MarshalJSON() ([]byte, error) {
	items := n.NavItems
	if items == nil {
		items = []NavItem{}
	}
	if n.Legacy {
		return json.Marshal(items)
	}
	return json.Marshal(wrapped{NavItems: items})
}

// UnmarshalJSON accepts both the object and the bare-list form.
func (n *Navigation) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var items []NavItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode navigation list: %w", err)
		}
		*n = Navigation{NavItems: items, Legacy: true}
		return nil
	}
	var w wrapped
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return fmt.Errorf("decode navigation: %w", err)
	}
	*n = Navigation{NavItems: w.NavItems}
	return nil
}

// UnmarshalYAML accepts both the mapping and the sequence form.
func (n *Navigation) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var items []NavItem
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("decode navigation list: %w", err)
		}
		*n = Navigation{NavItems: items, Legacy: true}
		return nil
	}
	var w wrapped
	if err := value.Decode(&w); err != nil {
		return fmt.Errorf("decode navigation: %w", err)
	}
	*n = Navigation{NavItems: w.NavItems}
	return nil
}
