package scheduler

import (
	"callcenter-sim/models"

	"cloud.google.com/go/civil"
)

// Callbacks is the cross-day queue of promised follow-up calls.
// It is not safe for concurrent use; the simulator is its only owner.
type Callbacks struct {
	byDay   map[civil.Date][]models.PendingCallback
	pending int
}

// NewCallbacks returns an empty queue.
func NewCallbacks() *Callbacks {
	return &Callbacks{byDay: make(map[civil.Date][]models.PendingCallback)}
}

// Schedule enqueues a callback owed by agentID on day.
// Callers are responsible for keeping day inside the simulation horizon.
func (c *Callbacks) Schedule(day civil.Date, customerID int, reason, subReason string, agentID int) {
	c.byDay[day] = append(c.byDay[day], models.PendingCallback{
		Day:        day,
		CustomerID: customerID,
		Reason:     reason,
		SubReason:  subReason,
		AgentID:    agentID,
	})
	c.pending++
}

// Due returns the callbacks agentID owes on day, in the order they were scheduled.
// Entries stay queued until Expire removes the whole day.
func (c *Callbacks) Due(day civil.Date, agentID int) []models.PendingCallback {
	var due []models.PendingCallback
	for _, cb := range c.byDay[day] {
		if cb.AgentID == agentID {
			due = append(due, cb)
		}
	}
	return due
}

// Expire drops every callback queued for day and returns how many there were.
// The simulator calls it once a day has been fully processed.
func (c *Callbacks) Expire(day civil.Date) int {
	n := len(c.byDay[day])
	delete(c.byDay, day)
	c.pending -= n
	return n
}

// Pending returns the number of queued callbacks across all days.
func (c *Callbacks) Pending() int {
	return c.pending
}
