package service

import (
	"GoToDo/internal/model"
	"fmt"
)

// forest индексирует элементы одного списка по parent_id.
type forest struct {
	parent   map[int64]*int64
	children map[int64][]int64
}

func newForest(nodes []model.ItemNode) *forest {
	f := &forest{
		parent:   make(map[int64]*int64, len(nodes)),
		children: make(map[int64][]int64, len(nodes)),
	}
	for _, n := range nodes {
		f.parent[n.ID] = n.ParentID
		if n.ParentID != nil {
			f.children[*n.ParentID] = append(f.children[*n.ParentID], n.ID)
		}
	}
	return f
}

func (f *forest) has(id int64) bool {
	_, ok := f.parent[id]
	return ok
}

// descendants обходит поддерево root явным стеком (в глубину) и возвращает
// всех потомков без самого root, а также высоту поддерева.
// При превышении maxDepth возвращается ErrConflict.
func (f *forest) descendants(root int64, maxDepth int) ([]int64, int, error) {
	type frame struct {
		id    int64
		depth int
	}
	var (
		out    []int64
		height int
		seen   = map[int64]bool{root: true}
		stack  = []frame{{id: root}}
	)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.id != root {
			out = append(out, top.id)
		}

		kids := f.children[top.id]
		// обратный порядок, чтобы первый ребёнок обрабатывался первым
		for i := len(kids) - 1; i >= 0; i-- {
			child := kids[i]
			if seen[child] {
				continue
			}
			d := top.depth + 1
			if d > maxDepth {
				return nil, 0, fmt.Errorf("%w: tree deeper than %d levels", ErrConflict, maxDepth)
			}
			seen[child] = true
			if d > height {
				height = d
			}
			stack = append(stack, frame{id: child, depth: d})
		}
	}
	return out, height, nil
}

// depth считает предков элемента (у корня 0).
func (f *forest) depth(id int64, maxDepth int) (int, error) {
	d := 0
	seen := map[int64]bool{id: true}
	for p := f.parent[id]; p != nil; p = f.parent[*p] {
		if seen[*p] {
			return 0, fmt.Errorf("%w: cycle at item %d", ErrConflict, *p)
		}
		seen[*p] = true
		d++
		if d > maxDepth {
			return 0, fmt.Errorf("%w: tree deeper than %d levels", ErrConflict, maxDepth)
		}
	}
	return d, nil
}

// isAncestor сообщает, лежит ли candidate на пути от id к корню (или совпадает с id).
func (f *forest) isAncestor(candidate, id int64) bool {
	seen := map[int64]bool{}
	for cur := &id; cur != nil; cur = f.parent[*cur] {
		if *cur == candidate {
			return true
		}
		if seen[*cur] {
			return false
		}
		seen[*cur] = true
	}
	return false
}

// move переносит элемент под нового родителя в индексе.
func (f *forest) move(id int64, newParent *int64) {
	if old := f.parent[id]; old != nil {
		kids := f.children[*old]
		for i, k := range kids {
			if k == id {
				f.children[*old] = append(kids[:i:i], kids[i+1:]...)
				break
			}
		}
	}
	f.parent[id] = newParent
	if newParent != nil {
		f.children[*newParent] = append(f.children[*newParent], id)
	}
}
