// Package assignment builds the agent → manager history over the horizon.
package assignment

import (
	"callcenter-sim/models"
	"math/rand/v2"
	"slices"

	"cloud.google.com/go/civil"
)

// Distribute assigns every agent to a manager for the whole horizon and then
// reassigns each agent a random number of times.
//
// Agents are shuffled and given managers round-robin for their first segment.
// Each agent then draws between 0 and 2×avgReassignments change days from the
// horizon (excluding its first day, so no segment is empty), and on each
// change day moves to a different manager chosen uniformly. Segments are
// inclusive, contiguous, and the last one ends at models.SentinelEndDate.
//
// Segments are returned grouped by agent in shuffled order.
func Distribute(agents []models.Agent, managers []models.Manager, start, end civil.Date, avgReassignments int, seed int64) []models.AssignmentSegment {
	if len(agents) == 0 || len(managers) == 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	shuffled := slices.Clone(agents)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var changeCandidates []civil.Date
	for d := start.AddDays(1); !d.After(end); d = d.AddDays(1) {
		changeCandidates = append(changeCandidates, d)
	}

	segments := make([]models.AssignmentSegment, 0, len(agents)*(avgReassignments+1))
	for i, agent := range shuffled {
		managerID := managers[i%len(managers)].ManagerID
		current := start

		n := rng.IntN(2*avgReassignments + 1)
		// A single manager leaves nowhere to move to.
		if len(managers) > 1 {
			for _, change := range sampleDays(rng, changeCandidates, n) {
				segments = append(segments, models.AssignmentSegment{
					AgentID:        agent.AgentID,
					ManagerID:      managerID,
					EffectiveStart: current,
					EffectiveEnd:   change.AddDays(-1),
				})
				managerID = otherManager(rng, managers, managerID)
				current = change
			}
		}

		segments = append(segments, models.AssignmentSegment{
			AgentID:        agent.AgentID,
			ManagerID:      managerID,
			EffectiveStart: current,
			EffectiveEnd:   models.SentinelEndDate,
		})
	}
	return segments
}

// sampleDays draws n distinct days without replacement and returns them sorted.
func sampleDays(rng *rand.Rand, days []civil.Date, n int) []civil.Date {
	n = min(n, len(days))
	if n == 0 {
		return nil
	}
	pool := slices.Clone(days)
	for i := range n {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	picked := pool[:n]
	slices.SortFunc(picked, func(a, b civil.Date) int {
		return a.DaysSince(b)
	})
	return picked
}

func otherManager(rng *rand.Rand, managers []models.Manager, current int) int {
	others := make([]int, 0, len(managers)-1)
	for _, m := range managers {
		if m.ManagerID != current {
			others = append(others, m.ManagerID)
		}
	}
	return others[rng.IntN(len(others))]
}
