package kb

import "sort"

// BuildCategoryTree assembles the flat category list the server returns
// into a forest. Parents are looked up by id only, so a row with a
// dangling parentId becomes a root rather than being dropped. Each level
// is ordered lexicographically by id.
func BuildCategoryTree(categories []Category) []*Category {
	nodes := make(map[string]*Category, len(categories))
	for i := range categories {
		c := categories[i]
		c.Children = nil
		nodes[c.ID] = &c
	}

	var roots []*Category
	for i := range categories {
		node := nodes[categories[i].ID]
		if node.ParentID != "" {
			if parent, ok := nodes[node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortLevel(roots)
	return roots
}

func sortLevel(cats []*Category) {
	sort.Slice(cats, func(i, j int) bool {
		return cats[i].ID < cats[j].ID
	})
	for _, c := range cats {
		sortLevel(c.Children)
	}
}

// FlattenTree walks the forest depth-first, reporting each category with
// its nesting depth. Used by list views that render indentation.
func FlattenTree(roots []*Category, visit func(c *Category, depth int)) {
	var walk func(cats []*Category, depth int)
	walk = func(cats []*Category, depth int) {
		for _, c := range cats {
			visit(c, depth)
			walk(c.Children, depth+1)
		}
	}
	walk(roots, 0)
}
