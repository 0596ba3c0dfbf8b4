package assignment_test

import (
	"callcenter-sim/assignment"
	"callcenter-sim/models"
	"callcenter-sim/roster"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = civil.Date{Year: 2025, Month: time.January, Day: 1}
	end   = civil.Date{Year: 2025, Month: time.March, Day: 31}
)

func segmentsByAgent(segments []models.AssignmentSegment) map[int][]models.AssignmentSegment {
	out := map[int][]models.AssignmentSegment{}
	for _, s := range segments {
		out[s.AgentID] = append(out[s.AgentID], s)
	}
	return out
}

func TestDistribute_Coverage(t *testing.T) {
	tests := map[string]struct {
		agents   int
		managers int
		avg      int
		end      civil.Date
	}{
		"Default":         {agents: 50, managers: 5, avg: 2, end: end},
		"ManyReassigns":   {agents: 10, managers: 3, avg: 20, end: end},
		"ShortHorizon":    {agents: 10, managers: 4, avg: 5, end: start.AddDays(2)},
		"SingleDay":       {agents: 5, managers: 2, avg: 3, end: start},
		"NoReassignments": {agents: 8, managers: 2, avg: 0, end: end},
		"SingleManager":   {agents: 6, managers: 1, avg: 2, end: end},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			agents := roster.Agents(tt.agents, 1)
			managers := roster.Managers(tt.managers, 2)
			segments := assignment.Distribute(agents, managers, start, tt.end, tt.avg, 315)

			byAgent := segmentsByAgent(segments)
			require.Len(t, byAgent, tt.agents, "every agent has a history")

			for agentID, history := range byAgent {
				require.NotEmpty(t, history)
				assert.Equal(t, start, history[0].EffectiveStart, "agent %d starts at the horizon", agentID)

				for i, seg := range history {
					assert.False(t, seg.EffectiveEnd.Before(seg.EffectiveStart), "agent %d segment %d is empty", agentID, i)
					if i > 0 {
						prev := history[i-1]
						assert.Equal(t, prev.EffectiveEnd.AddDays(1), seg.EffectiveStart, "agent %d gap or overlap at %d", agentID, i)
						assert.NotEqual(t, prev.ManagerID, seg.ManagerID, "agent %d reassigned to the same manager", agentID)
					}
					assert.Equal(t, i == len(history)-1, seg.Open(), "only the last segment is open")
				}
				assert.Equal(t, models.SentinelEndDate, history[len(history)-1].EffectiveEnd)
			}
		})
	}
}

func TestDistribute_RoundRobinInitialManagers(t *testing.T) {
	agents := roster.Agents(9, 1)
	managers := roster.Managers(3, 2)
	segments := assignment.Distribute(agents, managers, start, end, 0, 42)

	counts := map[int]int{}
	for _, s := range segments {
		counts[s.ManagerID]++
	}
	assert.Equal(t, map[int]int{1: 3, 2: 3, 3: 3}, counts)
}

func TestDistribute_Determinism(t *testing.T) {
	agents := roster.Agents(10, 1)
	managers := roster.Managers(10, 2)

	first := assignment.Distribute(agents, managers, start, end, 2, 315)
	second := assignment.Distribute(agents, managers, start, end, 2, 315)
	assert.Equal(t, first, second)

	other := assignment.Distribute(agents, managers, start, end, 2, 316)
	assert.NotEqual(t, first, other)
}

func TestDistribute_Empty(t *testing.T) {
	assert.Empty(t, assignment.Distribute(nil, roster.Managers(2, 1), start, end, 2, 1))
	assert.Empty(t, assignment.Distribute(roster.Agents(2, 1), nil, start, end, 2, 1))
}
