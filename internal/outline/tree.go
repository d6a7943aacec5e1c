/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

// TreeNode is one materialized node of the outline tree. Parent is a
// non-owning back-reference; Children are owned in document order.
type TreeNode struct {
	Node     *Node
	Parent   *TreeNode
	Children []*TreeNode
}

// Tree is a read-only object-graph view over the flat node list. It is built
// on demand and holds no state of its own beyond the links; the node list
// stays authoritative.
type Tree struct {
	Roots []*TreeNode
	byID  map[string]*TreeNode
}

// BuildTree materializes the parent/child graph from the flat node list.
// The sentinel blank node is skipped. Nodes whose parent id resolves to
// nothing are adopted by the first root when one exists; otherwise they
// become roots themselves.
func BuildTree(nodes []Node) *Tree {
	t := &Tree{byID: make(map[string]*TreeNode, len(nodes))}

	for i := range nodes {
		if nodes[i].Level == sentinelLevel {
			continue
		}
		t.byID[nodes[i].ID] = &TreeNode{Node: &nodes[i]}
	}

	var orphans []*TreeNode
	for i := range nodes {
		n := &nodes[i]
		tn, ok := t.byID[n.ID]
		if !ok {
			continue
		}
		if n.ParentID == "" {
			t.Roots = append(t.Roots, tn)
			continue
		}
		parent, ok := t.byID[n.ParentID]
		if !ok {
			orphans = append(orphans, tn)
			continue
		}
		tn.Parent = parent
		parent.Children = append(parent.Children, tn)
	}

	// Orphan adoption: a dangling parent id is an authoring or persistence
	// artifact, not a reason to drop content.
	for _, o := range orphans {
		if len(t.Roots) > 0 {
			o.Parent = t.Roots[0]
			t.Roots[0].Children = append(t.Roots[0].Children, o)
		} else {
			t.Roots = append(t.Roots, o)
		}
	}
	return t
}

// Lookup returns the materialized node for an id, or nil.
func (t *Tree) Lookup(id string) *TreeNode {
	return t.byID[id]
}

// Walk visits the tree depth-first in document order, calling fn with each
// node and its depth (roots are depth 0). Returning false stops the walk.
func (t *Tree) Walk(fn func(n *TreeNode, depth int) bool) {
	var visit func(n *TreeNode, depth int) bool
	visit = func(n *TreeNode, depth int) bool {
		if !fn(n, depth) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c, depth+1) {
				return false
			}
		}
		return true
	}
	for _, r := range t.Roots {
		if !visit(r, 0) {
			return
		}
	}
}
