package topology

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/polysamo/BQC-testes/sim"
)

// SlicePenalty is added to the weight of a link each time an earlier slice uses it.
const SlicePenalty = 10

// SlicePaths computes one path per client to server, in client order. Links
// used by earlier slices are penalized so later slices spread over the
// topology when an alternative exists. Pair pools are ignored.
func (n *Network) SlicePaths(clients []int, server int) ([]sim.Route, error) {
	if err := n.ValidateEndpoints(clients, server); err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrSliceConfig, err)
	}

	weighted := simple.NewWeightedUndirectedGraph(0, 0)
	for l := range n.pools {
		weighted.SetWeightedEdge(weighted.NewWeightedEdge(simple.Node(l.U), simple.Node(l.V), 1))
	}

	paths := make([]sim.Route, 0, len(clients))
	for i, client := range clients {
		nodes, _ := path.DijkstraFrom(simple.Node(client), weighted).To(int64(server))
		if len(nodes) < 2 {
			return nil, fmt.Errorf("%w: no path from client %d to server %d", sim.ErrSliceConfig, client, server)
		}
		route := toRoute(nodes)
		for _, l := range route.Links() {
			w, _ := weighted.Weight(int64(l.U), int64(l.V))
			weighted.SetWeightedEdge(weighted.NewWeightedEdge(simple.Node(l.U), simple.Node(l.V), w+SlicePenalty))
		}
		logrus.Infof("Path for %s: %v", sim.SliceID(i+1), route)
		paths = append(paths, route)
	}
	return paths, nil
}
