// Package topology provides the reference Network the scheduler drives: a
// line, ring or grid graph whose links carry pools of entangled pairs that
// decohere as the clock advances.
package topology

import (
	"fmt"
	"sort"

	arc "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/polysamo/BQC-testes/sim"
)

// Defaults for Config fields left at zero.
const (
	DefaultPairsPerLink      = 10
	DefaultInitialFidelity   = 1.0
	DefaultDecoherenceFactor = 0.00057
	DefaultFidelityThreshold = 0.8
	DefaultRouteCacheSize    = 256
)

// Config tunes the physical model of a Network. Zero values select the defaults.
type Config struct {
	PairsPerLink      int     // pairs per link after a restart
	InitialFidelity   float64 // fidelity of a fresh pair
	DecoherenceFactor float64 // fraction of fidelity lost per timeslot
	FidelityThreshold float64 // pairs below this are discarded
	RouteCacheSize    int
}

func (c Config) withDefaults() Config {
	if c.PairsPerLink <= 0 {
		c.PairsPerLink = DefaultPairsPerLink
	}
	if c.InitialFidelity <= 0 {
		c.InitialFidelity = DefaultInitialFidelity
	}
	if c.DecoherenceFactor <= 0 {
		c.DecoherenceFactor = DefaultDecoherenceFactor
	}
	if c.FidelityThreshold <= 0 {
		c.FidelityThreshold = DefaultFidelityThreshold
	}
	if c.RouteCacheSize <= 0 {
		c.RouteCacheSize = DefaultRouteCacheSize
	}
	return c
}

type routeKey struct{ client, server int }

type cachedRoute struct {
	route sim.Route
	ok    bool
}

// Network implements sim.Network over a fixed graph.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Network struct {
	cfg     Config
	graph   *simple.WeightedUndirectedGraph
	clock   sim.Clock
	pools   map[sim.Link]*pairPool
	runners map[sim.Protocol]ProtocolRunner
	routes  *arc.ARCCache[routeKey, cachedRoute]

	// RouteFidelities holds the end-to-end fidelity of every executed request, in order.
	RouteFidelities []float64
}

var _ sim.Network = (*Network)(nil)

// New builds a Network of the given kind with full pair pools at timeslot 0.
func New(kind string, dims []int, cfg Config) (*Network, error) {
	g, err := buildGraph(kind, dims)
	if err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	routes, err := arc.NewARC[routeKey, cachedRoute](cfg.RouteCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating route cache: %w", err)
	}

	n := &Network{
		cfg:     cfg,
		graph:   g,
		pools:   make(map[sim.Link]*pairPool),
		runners: DefaultRunners(),
		routes:  routes,
	}
	for _, e := range graph.EdgesOf(g.Edges()) {
		n.pools[sim.NewLink(int(e.From().ID()), int(e.To().ID()))] = &pairPool{}
	}
	n.clock.OnAdvance(n.decohere)
	n.Restart()
	logrus.Infof("%s topology created: %d nodes, %d links", kind, g.Nodes().Len(), len(n.pools))
	return n, nil
}

// SetRunner registers or replaces the runner of a protocol.
func (n *Network) SetRunner(p sim.Protocol, r ProtocolRunner) {
	n.runners[p] = r
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return n.graph.Nodes().Len() }

// HasNode reports whether id is a node of the topology.
func (n *Network) HasNode(id int) bool { return n.graph.Node(int64(id)) != nil }

// Links returns every link of the topology, sorted.
func (n *Network) Links() []sim.Link {
	links := make([]sim.Link, 0, len(n.pools))
	for l := range n.pools {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].U != links[j].U {
			return links[i].U < links[j].U
		}
		return links[i].V < links[j].V
	})
	return links
}

// PairCount returns the live pairs on a link, 0 for unknown links.
func (n *Network) PairCount(l sim.Link) int {
	if p, ok := n.pools[sim.NewLink(l.U, l.V)]; ok {
		return p.len()
	}
	return 0
}

// ValidateEndpoints checks that every client and the server are distinct nodes of the topology.
func (n *Network) ValidateEndpoints(clients []int, server int) error {
	if !n.HasNode(server) {
		return fmt.Errorf("server %d is not a node of the topology", server)
	}
	for _, c := range clients {
		if !n.HasNode(c) {
			return fmt.Errorf("client %d is not a node of the topology", c)
		}
		if c == server {
			return fmt.Errorf("client %d is also the server", c)
		}
	}
	return nil
}

func (n *Network) Timeslot() int64 { return n.clock.Now() }

func (n *Network) AdvanceTimeslot() { n.clock.Advance() }

// decohere ages every pair by one timeslot.
func (n *Network) decohere(now int64) {
	dropped := 0
	for _, p := range n.pools {
		dropped += p.decay(n.cfg.DecoherenceFactor, n.cfg.FidelityThreshold)
	}
	if dropped > 0 {
		logrus.Debugf("Timeslot %d: %d pairs decohered below %.2f", now, dropped, n.cfg.FidelityThreshold)
		n.routes.Purge()
	}
}

// Restart refills every pair pool with fresh pairs. The clock is untouched.
func (n *Network) Restart() {
	for _, p := range n.pools {
		p.fill(n.cfg.PairsPerLink, n.cfg.InitialFidelity)
	}
	n.routes.Purge()
	logrus.Debugf("Network restarted at timeslot %d", n.clock.Now())
}

// ShortestValidRoute returns the fewest-hop route between client and server
// over links that still hold at least one pair. It never advances the clock.
// Among equally short routes the choice is left to Dijkstra's traversal order.
func (n *Network) ShortestValidRoute(client, server int) (sim.Route, bool) {
	key := routeKey{client, server}
	if c, ok := n.routes.Get(key); ok {
		return c.route.Clone(), c.ok
	}
	route, ok := n.computeRoute(client, server)
	n.routes.Add(key, cachedRoute{route: route, ok: ok})
	return route.Clone(), ok
}

func (n *Network) computeRoute(client, server int) (sim.Route, bool) {
	if client == server || !n.HasNode(client) || !n.HasNode(server) {
		return nil, false
	}
	valid := simple.NewWeightedUndirectedGraph(0, 0)
	for l, p := range n.pools {
		if p.len() > 0 {
			valid.SetWeightedEdge(valid.NewWeightedEdge(simple.Node(l.U), simple.Node(l.V), 1))
		}
	}
	if valid.Node(int64(client)) == nil || valid.Node(int64(server)) == nil {
		return nil, false
	}
	nodes, _ := path.DijkstraFrom(simple.Node(client), valid).To(int64(server))
	if len(nodes) < 2 {
		return nil, false
	}
	return toRoute(nodes), true
}

func toRoute(nodes []graph.Node) sim.Route {
	route := make(sim.Route, len(nodes))
	for i, node := range nodes {
		route[i] = int(node.ID())
	}
	return route
}

// Execute runs req's protocol over its slice path, when set, or over the
// current shortest valid route. Every link must hold the pairs the protocol
// needs; otherwise nothing is consumed and Execute returns false.
// An unregistered protocol is a configuration error.
func (n *Network) Execute(req *sim.Request) (bool, error) {
	runner, ok := n.runners[req.Protocol]
	if !ok {
		return false, fmt.Errorf("%w: %q", sim.ErrUnknownProtocol, req.Protocol)
	}

	route := req.SlicePath
	if route == nil {
		route, ok = n.ShortestValidRoute(req.ClientID, req.ServerID)
		if !ok {
			logrus.Warnf("No valid route for %v", req)
			return false, nil
		}
	}

	demand := runner.PairsPerLink(req)
	links := route.Links()
	if len(links) == 0 {
		logrus.Warnf("Route %v of %v has no links", route, req)
		return false, nil
	}
	for _, l := range links {
		p, exists := n.pools[l]
		if !exists {
			logrus.Warnf("Route %v of %v uses %v, which is not a link of the topology", route, req, l)
			return false, nil
		}
		if p.len() < demand {
			logrus.Infof("%v needs %d pairs on %v, %d available", req, demand, l, p.len())
			return false, nil
		}
	}

	fidelity := 1.0
	for _, l := range links {
		taken := n.pools[l].take(demand)
		if len(taken) > 0 {
			fidelity *= taken[len(taken)-1]
		}
	}
	n.routes.Purge()
	n.RouteFidelities = append(n.RouteFidelities, fidelity)
	logrus.Infof("%s executed on route %v: %d pairs per link, route fidelity %.4f",
		req.Protocol, route, demand, fidelity)
	return true, nil
}

// AverageFidelity returns the mean end-to-end fidelity of executed requests, 0 when none ran.
func (n *Network) AverageFidelity() float64 {
	if len(n.RouteFidelities) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range n.RouteFidelities {
		sum += f
	}
	return sum / float64(len(n.RouteFidelities))
}
