package sim

import (
	"fmt"
	"strings"
)

// Link is one hop of a route. U <= V always holds, so a link is the same
// reservation unit regardless of the direction a route traverses it.
type Link struct {
	U, V int
}

// NewLink returns the normalized link between two adjacent nodes.
func NewLink(a, b int) Link {
	if a > b {
		a, b = b, a
	}
	return Link{U: a, V: b}
}

func (l Link) String() string {
	return fmt.Sprintf("(%d,%d)", l.U, l.V)
}

// Route is an ordered sequence of node ids; consecutive pairs are links.
type Route []int

// Links returns the links of the route in traversal order.
func (r Route) Links() []Link {
	if len(r) < 2 {
		return nil
	}
	links := make([]Link, 0, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		links = append(links, NewLink(r[i], r[i+1]))
	}
	return links
}

// Intermediate returns the route without its terminal node.
// Two routes conflict for timeslot sharing when these sets intersect.
func (r Route) Intermediate() []int {
	if len(r) == 0 {
		return nil
	}
	return r[:len(r)-1]
}

// Overlap returns the non-terminal nodes r shares with other, in other's order.
func (r Route) Overlap(other Route) []int {
	seen := make(map[int]struct{}, len(r))
	for _, n := range r.Intermediate() {
		seen[n] = struct{}{}
	}
	var shared []int
	for _, n := range other.Intermediate() {
		if _, ok := seen[n]; ok {
			shared = append(shared, n)
			delete(seen, n)
		}
	}
	return shared
}

// Overlaps reports whether the non-terminal nodes of r and other intersect.
func (r Route) Overlaps(other Route) bool {
	return len(r.Overlap(other)) > 0
}

// Clone returns a copy that does not alias r.
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	return append(Route(nil), r...)
}

func (r Route) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, n := range r {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprint(&sb, n)
	}
	sb.WriteString("]")
	return sb.String()
}
