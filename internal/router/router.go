// Package router selects a target agent for a task payload by capability
// keyword matching.
package router

import (
	"strings"

	"agent-hive/internal/roster"
)

// Route picks the agent to delegate a payload to. Agents are scanned in
// roster order, skipping selfID; the first capability keyword found as a
// case-insensitive substring of the payload wins. With no match the payload
// routes back to selfID.
func Route(payload string, r *roster.Roster, selfID string) string {
	lower := strings.ToLower(payload)

	for _, agent := range r.Agents {
		if agent.AgentID == selfID {
			continue
		}
		for _, capability := range agent.Capabilities {
			keyword := strings.ToLower(strings.TrimSpace(capability))
			if keyword == "" {
				continue
			}
			if strings.Contains(lower, keyword) {
				return agent.AgentID
			}
		}
	}
	return selfID
}
