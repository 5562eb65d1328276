package workflow

import (
	"fmt"

	"github.com/notfabo/projeto-multiagents/types"
)

const (
	// SupervisorNode is the fixed routing node present in every graph.
	// Every conversation enters here, even for the first turn.
	SupervisorNode = "supervisor"

	// FinishToken is the reserved completion token. A supervisor decision
	// equal to this token ends the run.
	FinishToken = "FINISH"

	// TerminateNode is the terminal marker in the dispatch table.
	TerminateNode = "__end__"
)

// Graph is the static topology built once per roster: one node per
// specialist plus the supervisor node, a return edge from every specialist
// back to the supervisor, and a dispatch table keyed by the supervisor's
// textual decision. A Graph is immutable after Build and may be shared
// read-only across concurrent runs.
type Graph struct {
	roster   types.Roster
	nodes    map[string]types.AgentSpec
	edges    map[string]string
	dispatch map[string]string
}

// Build compiles a roster into a workflow graph.
//
// Specialists never invoke each other directly; the supervisor is the sole
// routing authority. That centralizes decision logic and bounds the topology
// to a star graph, so node-to-node cycles cannot occur.
func Build(roster types.Roster) (*Graph, error) {
	if len(roster) == 0 {
		return nil, types.NewConfigurationError("roster is empty")
	}

	g := &Graph{
		roster:   roster,
		nodes:    make(map[string]types.AgentSpec, len(roster)),
		edges:    make(map[string]string, len(roster)),
		dispatch: make(map[string]string, len(roster)+1),
	}

	for _, spec := range roster {
		if spec.Role == "" {
			return nil, types.NewConfigurationError("roster contains an agent with empty role")
		}
		if spec.Role == SupervisorNode || spec.Role == types.SenderUser {
			return nil, types.NewConfigurationError(
				fmt.Sprintf("role %q is reserved", spec.Role))
		}
		if spec.Role == FinishToken {
			return nil, types.NewConfigurationError(
				fmt.Sprintf("role %q collides with the completion token", spec.Role))
		}
		if _, exists := g.nodes[spec.Role]; exists {
			return nil, types.NewConfigurationError(
				fmt.Sprintf("duplicate role in roster: %s", spec.Role))
		}
		g.nodes[spec.Role] = spec
		// return edge: specialist → supervisor
		g.edges[spec.Role] = SupervisorNode
		g.dispatch[spec.Role] = spec.Role
	}
	g.dispatch[FinishToken] = TerminateNode

	return g, nil
}

// Entry returns the entry node of the graph. Always the supervisor.
func (g *Graph) Entry() string { return SupervisorNode }

// Roster returns the roster this graph was built from, in order.
func (g *Graph) Roster() types.Roster { return g.roster }

// Roles returns the specialist role names in roster order.
func (g *Graph) Roles() []string { return g.roster.Roles() }

// Spec returns the agent spec for a role node.
func (g *Graph) Spec(role string) (types.AgentSpec, bool) {
	spec, ok := g.nodes[role]
	return spec, ok
}

// Dispatch resolves a supervisor decision token to the next node.
// For role tokens it returns the role itself; for FinishToken it returns
// TerminateNode. ok is false for any token outside the closed set.
func (g *Graph) Dispatch(token string) (string, bool) {
	node, ok := g.dispatch[token]
	return node, ok
}

// ReturnEdge returns the node a specialist hands control back to.
// Always the supervisor for every specialist in the graph.
func (g *Graph) ReturnEdge(role string) (string, bool) {
	next, ok := g.edges[role]
	return next, ok
}

// Nodes returns all node names: every specialist role plus the supervisor.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes)+1)
	nodes = append(nodes, SupervisorNode)
	for _, spec := range g.roster {
		nodes = append(nodes, spec.Role)
	}
	return nodes
}
