package catalog

import (
	"sort"

	"github.com/google/uuid"
)

// CategoryNode is the flat read model produced by the category query:
// one row per category with its depth and aggregate counts attached.
type CategoryNode struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Slug                 string     `json:"slug"`
	ParentID             *uuid.UUID `json:"parent_id"`
	SortOrder            int        `json:"sort_order"`
	Level                int        `json:"level"`
	IsActive             bool       `json:"is_active"`
	IsFeatured           bool       `json:"is_featured"`
	ChildrenCount        int64      `json:"children_count"`
	ProductsCount        int64      `json:"products_count"`
	PrimaryProductsCount int64      `json:"primary_products_count"`
}

// TreeNode is a CategoryNode placed in the hierarchy with its direct
// children attached. Level and ChildrenCount reflect the rendered
// nesting, which can differ from the stored values when filters hide
// part of the tree.
type TreeNode struct {
	CategoryNode
	Children []TreeNode `json:"children"`
}

// BuildTree nests a flat, filtered collection of category nodes.
//
// Nodes are grouped by parent once (O(n)), then attached recursively from
// the roots, sorted by sort_order with id as the tiebreak. A node whose
// parent is missing from the input (filtered out or deleted) is promoted
// to a root so filters never make nodes disappear from view. The input
// slice is not mutated.
func BuildTree(nodes []CategoryNode) []TreeNode {
	present := make(map[uuid.UUID]struct{}, len(nodes))
	for _, n := range nodes {
		present[n.ID] = struct{}{}
	}

	byParent := make(map[uuid.UUID][]CategoryNode)
	var roots []CategoryNode
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := present[*n.ParentID]; !ok {
			// Orphan promotion: parent absent from this view
			roots = append(roots, n)
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
	}

	return attachChildren(roots, byParent, 0)
}

// attachChildren builds the subtree for each sibling group at the given level
func attachChildren(siblings []CategoryNode, byParent map[uuid.UUID][]CategoryNode, level int) []TreeNode {
	if len(siblings) == 0 {
		return []TreeNode{}
	}

	ordered := make([]CategoryNode, len(siblings))
	copy(ordered, siblings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	result := make([]TreeNode, len(ordered))
	for i, n := range ordered {
		children := attachChildren(byParent[n.ID], byParent, level+1)
		n.Level = level
		n.ChildrenCount = int64(len(children))
		result[i] = TreeNode{
			CategoryNode: n,
			Children:     children,
		}
	}
	return result
}

// AssignLevels sets each node's depth within the given collection. A node
// whose parent is absent counts as a root, matching the promotion
// BuildTree applies, and the walk is bounded so a cyclic parent chain
// cannot loop.
func AssignLevels(nodes []CategoryNode) {
	byID := make(map[uuid.UUID]*CategoryNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	for i := range nodes {
		level := 0
		parentID := nodes[i].ParentID
		for step := 0; parentID != nil && step < len(nodes); step++ {
			parent, ok := byID[*parentID]
			if !ok {
				break
			}
			level++
			parentID = parent.ParentID
		}
		nodes[i].Level = level
	}
}

// CanDropAdjacent reports whether a dragged node at dragLevel may be dropped
// next to a node at dropLevel. The page keeps drag-and-drop comprehensible by
// only offering drop positions within one level of the dragged node; this is
// an interaction filter, not a data invariant, and the server never enforces it.
func CanDropAdjacent(dragLevel, dropLevel int) bool {
	delta := dragLevel - dropLevel
	return delta >= -1 && delta <= 1
}
