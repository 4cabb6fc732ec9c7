package services

import (
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
)

// categoryTree is an arena of a tenant's categories indexed by id. Nodes
// refer to each other by slice index, so traversals are plain loops.
type categoryTree struct {
	index map[string]int
	nodes []categoryNode
}

type categoryNode struct {
	category models.Category
	children []int
}

// newCategoryTree builds the arena. Parents that are missing from cats are
// treated as absent, which makes the child a root.
func newCategoryTree(cats []models.Category) *categoryTree {
	t := &categoryTree{
		index: make(map[string]int, len(cats)),
		nodes: make([]categoryNode, len(cats)),
	}
	for i, c := range cats {
		t.index[c.ID] = i
		t.nodes[i].category = c
	}
	for i, c := range cats {
		if c.ParentID == nil {
			continue
		}
		if p, ok := t.index[*c.ParentID]; ok {
			t.nodes[p].children = append(t.nodes[p].children, i)
		}
	}
	return t
}

// Contains reports whether id is part of the tree.
func (t *categoryTree) Contains(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Name returns the name of the category with the given id.
func (t *categoryTree) Name(id string) string {
	if i, ok := t.index[id]; ok {
		return t.nodes[i].category.Name
	}
	return ""
}

// Descendants returns rootID followed by every category below it, in
// breadth-first order. A node reached twice means the parent links form a
// cycle, reported as ErrCategoryCycle.
func (t *categoryTree) Descendants(rootID string) ([]string, error) {
	root, ok := t.index[rootID]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	visited := make([]bool, len(t.nodes))
	visited[root] = true
	queue := []int{root}
	ids := make([]string, 0, 1)

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		ids = append(ids, t.nodes[n].category.ID)

		for _, child := range t.nodes[n].children {
			if visited[child] {
				return nil, apperrors.ErrCategoryCycle
			}
			visited[child] = true
			queue = append(queue, child)
		}
	}
	return ids, nil
}

// WouldCycle reports whether making parentID the parent of id would put id
// among its own ancestors.
func (t *categoryTree) WouldCycle(id, parentID string) bool {
	if id == parentID {
		return true
	}
	steps := 0
	for cur, ok := t.index[parentID]; ok; {
		if t.nodes[cur].category.ID == id {
			return true
		}
		// An existing cycle that does not include id would loop forever.
		if steps++; steps > len(t.nodes) {
			return true
		}
		p := t.nodes[cur].category.ParentID
		if p == nil {
			return false
		}
		cur, ok = t.index[*p]
	}
	return false
}
