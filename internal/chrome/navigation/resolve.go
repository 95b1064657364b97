package navigation

// Flatten returns the top-level items of nav with every group replaced by its
// children. Only the first level is expanded; Routes are left untouched.
func Flatten(nav Navigation) []NavItem {
	return FlattenItems(nav.Items())
}

// FlattenItems is Flatten for a bare item list.
func FlattenItems(items []NavItem) []NavItem {
	flat := make([]NavItem, 0, len(items))
	for _, item := range items {
		if item.IsGroup() {
			flat = append(flat, item.NavItems...)
			continue
		}
		flat = append(flat, item)
	}
	return flat
}

// Leaf is the result of FindActiveLeaf. Ancestors are ordered root to leaf and
// hold the expandable entries traversed to reach Item.
type Leaf struct {
	Item      NavItem
	Ancestors []NavItem
}

// FindActiveLeaf walks items depth-first, left to right, and returns the first
// active leaf it meets. Expandable entries are searched through their Routes
// and never qualify themselves. When several entries are marked active the
// first one in that order wins and the rest are ignored.
func FindActiveLeaf(items []NavItem) (Leaf, bool) {
	for _, item := range items {
		if item.IsExpandable() {
			nested, ok := FindActiveLeaf(item.Routes)
			if !ok {
				continue
			}
			ancestors := make([]NavItem, 0, len(nested.Ancestors)+1)
			ancestors = append(ancestors, item)
			ancestors = append(ancestors, nested.Ancestors...)
			return Leaf{Item: nested.Item, Ancestors: ancestors}, true
		}
		if item.IsActiveLeaf() {
			return Leaf{Item: item, Ancestors: []NavItem{}}, true
		}
	}
	return Leaf{Ancestors: []NavItem{}}, false
}
