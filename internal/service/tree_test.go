package service

import (
	"GoToDo/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(pairs ...[2]int64) []model.ItemNode {
	out := make([]model.ItemNode, 0, len(pairs))
	for _, p := range pairs {
		n := model.ItemNode{ID: p[0]}
		if p[1] != 0 {
			parent := p[1]
			n.ParentID = &parent
		}
		out = append(out, n)
	}
	return out
}

func Test_forest_descendants(t *testing.T) {
	// 1 -> 2 -> 4, 1 -> 3, 5 отдельный корень
	f := newForest(nodes([2]int64{1, 0}, [2]int64{2, 1}, [2]int64{3, 1}, [2]int64{4, 2}, [2]int64{5, 0}))

	desc, height, err := f.descendants(1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 3}, desc) // в глубину, по порядку детей
	assert.Equal(t, 2, height)

	desc, height, err = f.descendants(5, 10)
	require.NoError(t, err)
	assert.Empty(t, desc)
	assert.Equal(t, 0, height)
}

func Test_forest_descendants_depthGuard(t *testing.T) {
	f := newForest(nodes([2]int64{1, 0}, [2]int64{2, 1}, [2]int64{3, 2}, [2]int64{4, 3}))

	_, _, err := f.descendants(1, 3)
	require.NoError(t, err)

	_, _, err = f.descendants(1, 2)
	assert.ErrorIs(t, err, ErrConflict)
}

func Test_forest_descendants_cycleTerminates(t *testing.T) {
	// испорченные данные: 1 <-> 2
	f := newForest(nodes([2]int64{1, 2}, [2]int64{2, 1}))
	desc, _, err := f.descendants(1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, desc)

	_, err = f.depth(1, 10)
	assert.ErrorIs(t, err, ErrConflict)
}

func Test_forest_depthAndAncestor(t *testing.T) {
	f := newForest(nodes([2]int64{1, 0}, [2]int64{2, 1}, [2]int64{3, 2}))

	d, err := f.depth(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	assert.True(t, f.isAncestor(1, 3))
	assert.True(t, f.isAncestor(3, 3))
	assert.False(t, f.isAncestor(3, 1))
}

func Test_forest_move(t *testing.T) {
	f := newForest(nodes([2]int64{1, 0}, [2]int64{2, 1}, [2]int64{3, 0}))

	f.move(2, ptr(int64(3)))
	assert.Empty(t, f.children[1])
	assert.Equal(t, []int64{2}, f.children[3])
	assert.True(t, f.isAncestor(3, 2))

	f.move(2, nil)
	assert.Empty(t, f.children[3])
	assert.Nil(t, f.parent[2])
}
