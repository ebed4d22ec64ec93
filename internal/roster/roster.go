package roster

import "strings"

// Profile describes one agent's advertised capabilities. Permissions are
// parsed alongside capabilities but not consulted by routing; they are
// reserved for a future authorization layer.
type Profile struct {
	AgentID      string
	Capabilities []string
	Permissions  []string
}

// Roster is an ordered capability map. Document order defines iteration
// order, which routing depends on.
type Roster struct {
	Agents []Profile
}

// Get returns the profile for an agent ID, if present.
func (r *Roster) Get(agentID string) (Profile, bool) {
	for _, p := range r.Agents {
		if p.AgentID == agentID {
			return p, true
		}
	}
	return Profile{}, false
}

// Parse reads a roster document. Each agent is introduced by a second-level
// heading naming its ID, followed by "capabilities:" and "permissions:"
// labels with bulleted keyword lines:
//
//	## writer
//	capabilities:
//	  - report
//	permissions:
//	  - write_docs
func Parse(content string) *Roster {
	r := &Roster{}
	var current *Profile
	section := ""

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "##") && !strings.HasPrefix(stripped, "###") {
			id := strings.TrimSpace(strings.TrimPrefix(stripped, "##"))
			if id != "" {
				r.Agents = append(r.Agents, Profile{AgentID: id})
				current = &r.Agents[len(r.Agents)-1]
				section = ""
			}
			continue
		}
		if current == nil {
			continue
		}

		if strings.Contains(stripped, ":") && !strings.HasPrefix(stripped, "-") {
			lower := strings.ToLower(stripped)
			switch {
			case strings.Contains(lower, "capabilities"):
				section = "capabilities"
			case strings.Contains(lower, "permissions"):
				section = "permissions"
			}
			continue
		}

		if section != "" && strings.HasPrefix(stripped, "-") {
			item := strings.TrimSpace(strings.TrimPrefix(stripped, "-"))
			if item == "" {
				continue
			}
			switch section {
			case "capabilities":
				current.Capabilities = append(current.Capabilities, item)
			case "permissions":
				current.Permissions = append(current.Permissions, item)
			}
		}
	}
	return r
}
