package types

import (
	"hash/fnv"
	"strconv"
)

// AgentSpec defines one specialist agent of a roster: its role name and a
// free-text description of its responsibilities. The role doubles as the
// routing key inside a workflow graph, so it must be unique within a roster.
type AgentSpec struct {
	Role             string `json:"role"`
	Responsibilities string `json:"responsibilities"`
}

// Roster is the ordered list of specialist agents for one use case.
// It is fixed once proposed by the architect; execution never mutates it.
type Roster []AgentSpec

// Roles returns the role names in roster order.
func (r Roster) Roles() []string {
	roles := make([]string, 0, len(r))
	for _, spec := range r {
		roles = append(roles, spec.Role)
	}
	return roles
}

// HasRole reports whether the roster contains the given role name.
func (r Roster) HasRole(role string) bool {
	for _, spec := range r {
		if spec.Role == role {
			return true
		}
	}
	return false
}

// Find returns the spec for the given role name.
func (r Roster) Find(role string) (AgentSpec, bool) {
	for _, spec := range r {
		if spec.Role == role {
			return spec, true
		}
	}
	return AgentSpec{}, false
}

// Key returns a stable cache key for the roster. Responsibilities are part
// of the key because agent prompts are built from them; two rosters that
// differ only in responsibilities must not share a compiled graph.
func (r Roster) Key() string {
	h := fnv.New64a()
	for _, spec := range r {
		h.Write([]byte(spec.Role))
		h.Write([]byte{0x1f})
		h.Write([]byte(spec.Responsibilities))
		h.Write([]byte{0x1e})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
