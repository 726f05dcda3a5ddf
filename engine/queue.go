// SPDX-License-Identifier: EPL-2.0

package engine

// Node is one entry of a linked-list transfer queue.
type Node struct {
	Desc Descriptor
	next *Node
}

// Next returns the node the controller moves to after this one.
func (n *Node) Next() *Node { return n.next }

// Queue is a reusable linked-list of transfer nodes. Nodes are appended the
// first time a link is configured and updated in place afterwards, so
// reconfiguration never grows the list.
type Queue struct {
	head    *Node
	nodes   map[Link]*Node
	appends int
}

// Ensure returns the node for d.Link, appending it on first use and
// refreshing its descriptor otherwise. The list is kept circular.
func (q *Queue) Ensure(d Descriptor) *Node {
	if n, ok := q.nodes[d.Link]; ok {
		n.Desc = d
		return n
	}
	if q.nodes == nil {
		q.nodes = make(map[Link]*Node)
	}

	n := &Node{Desc: d}
	if q.head == nil {
		q.head = n
		n.next = n
	} else {
		tail := q.head
		for tail.next != q.head {
			tail = tail.next
		}
		tail.next = n
		n.next = q.head
	}
	q.nodes[d.Link] = n
	q.appends++
	return n
}

// Head returns the first node, or nil for an empty queue.
func (q *Queue) Head() *Node { return q.head }

// Len returns the number of nodes.
func (q *Queue) Len() int { return len(q.nodes) }

// Appends returns how many nodes were ever appended.
func (q *Queue) Appends() int { return q.appends }
