package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id uuid.UUID, name string, parentID *uuid.UUID, sortOrder int) CategoryNode {
	return CategoryNode{
		ID:        id,
		Name:      name,
		Slug:      Slugify(name),
		ParentID:  parentID,
		SortOrder: sortOrder,
		IsActive:  true,
	}
}

func TestBuildTree(t *testing.T) {
	t.Run("nests children under parents with levels", func(t *testing.T) {
		rootID := uuid.New()
		childID := uuid.New()
		grandID := uuid.New()

		tree := BuildTree([]CategoryNode{
			node(grandID, "Grandchild", &childID, 0),
			node(rootID, "Root", nil, 0),
			node(childID, "Child", &rootID, 0),
		})

		require.Len(t, tree, 1)
		assert.Equal(t, rootID, tree[0].ID)
		assert.Equal(t, 0, tree[0].Level)
		assert.Equal(t, int64(1), tree[0].ChildrenCount)

		require.Len(t, tree[0].Children, 1)
		child := tree[0].Children[0]
		assert.Equal(t, childID, child.ID)
		assert.Equal(t, 1, child.Level)

		require.Len(t, child.Children, 1)
		assert.Equal(t, grandID, child.Children[0].ID)
		assert.Equal(t, 2, child.Children[0].Level)
		assert.Equal(t, int64(0), child.Children[0].ChildrenCount)
	})

	t.Run("orders siblings by sort order then id", func(t *testing.T) {
		a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
		b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
		c := uuid.MustParse("cccccccc-0000-0000-0000-000000000000")

		tree := BuildTree([]CategoryNode{
			node(c, "Third", nil, 5),
			node(b, "Tie B", nil, 1),
			node(a, "Tie A", nil, 1),
		})

		require.Len(t, tree, 3)
		assert.Equal(t, a, tree[0].ID)
		assert.Equal(t, b, tree[1].ID)
		assert.Equal(t, c, tree[2].ID)
	})

	t.Run("promotes orphans to roots", func(t *testing.T) {
		missingParent := uuid.New()
		orphanID := uuid.New()
		rootID := uuid.New()

		tree := BuildTree([]CategoryNode{
			node(rootID, "Root", nil, 0),
			node(orphanID, "Orphan", &missingParent, 1),
		})

		require.Len(t, tree, 2)
		for _, n := range tree {
			assert.Equal(t, 0, n.Level)
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		rootID := uuid.New()
		childID := uuid.New()
		input := []CategoryNode{
			node(childID, "Child", &rootID, 1),
			node(rootID, "Root", nil, 0),
		}

		BuildTree(input)

		assert.Equal(t, childID, input[0].ID)
		assert.Equal(t, rootID, input[1].ID)
	})

	t.Run("empty input yields empty tree", func(t *testing.T) {
		assert.Empty(t, BuildTree(nil))
	})

	t.Run("children counts only direct children", func(t *testing.T) {
		rootID := uuid.New()
		c1 := uuid.New()
		c2 := uuid.New()
		grand := uuid.New()

		tree := BuildTree([]CategoryNode{
			node(rootID, "Root", nil, 0),
			node(c1, "C1", &rootID, 0),
			node(c2, "C2", &rootID, 1),
			node(grand, "G", &c1, 0),
		})

		require.Len(t, tree, 1)
		assert.Equal(t, int64(2), tree[0].ChildrenCount)
	})
}

func TestAssignLevels(t *testing.T) {
	t.Run("assigns depth from the parent chain", func(t *testing.T) {
		rootID := uuid.New()
		childID := uuid.New()
		grandID := uuid.New()

		nodes := []CategoryNode{
			node(grandID, "Grandchild", &childID, 0),
			node(rootID, "Root", nil, 0),
			node(childID, "Child", &rootID, 0),
		}

		AssignLevels(nodes)

		assert.Equal(t, 2, nodes[0].Level)
		assert.Equal(t, 0, nodes[1].Level)
		assert.Equal(t, 1, nodes[2].Level)
	})

	t.Run("absent parent counts as root", func(t *testing.T) {
		missing := uuid.New()
		nodes := []CategoryNode{
			node(uuid.New(), "Stranded", &missing, 0),
		}

		AssignLevels(nodes)

		assert.Equal(t, 0, nodes[0].Level)
	})

	t.Run("cyclic parent chain does not loop", func(t *testing.T) {
		a := uuid.New()
		b := uuid.New()
		nodes := []CategoryNode{
			node(a, "A", &b, 0),
			node(b, "B", &a, 0),
		}

		AssignLevels(nodes)

		for _, n := range nodes {
			assert.LessOrEqual(t, n.Level, len(nodes))
		}
	})
}

func TestCanDropAdjacent(t *testing.T) {
	cases := []struct {
		name      string
		dragLevel int
		dropLevel int
		want      bool
	}{
		{"same level", 2, 2, true},
		{"one shallower", 2, 1, true},
		{"one deeper", 2, 3, true},
		{"two shallower", 2, 0, false},
		{"two deeper", 0, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanDropAdjacent(tc.dragLevel, tc.dropLevel))
		})
	}
}
