package orchestrator

import (
	"fmt"
	"strings"
)

// Graph renders the coordinator topology as a Mermaid flowchart: the start
// node leads to the coordinator, which may hand off to each member (dashed)
// or finish; every member returns to the coordinator.
func (o *Orchestrator) Graph() string {
	var b strings.Builder

	b.WriteString("flowchart TD\n")
	b.WriteString("    __start__([__start__])\n")
	fmt.Fprintf(&b, "    coordinator[%q]\n", o.name)

	for _, m := range o.members {
		fmt.Fprintf(&b, "    %s[%q]\n", nodeID(m.Name), m.Name)
	}

	b.WriteString("    __end__([__end__])\n")
	b.WriteString("    __start__ --> coordinator\n")

	for _, m := range o.members {
		fmt.Fprintf(&b, "    coordinator -.-> %s\n", nodeID(m.Name))
		fmt.Fprintf(&b, "    %s --> coordinator\n", nodeID(m.Name))
	}

	b.WriteString("    coordinator -.-> __end__\n")

	return b.String()
}

// nodeID turns a member name into a Mermaid node identifier.
func nodeID(name string) string {
	return "member_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
