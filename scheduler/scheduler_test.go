package scheduler_test

import (
	"callcenter-sim/models"
	"callcenter-sim/scheduler"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestCallbacks_Due(t *testing.T) {
	day := func(d int) civil.Date { return civil.Date{Year: 2025, Month: time.January, Day: d} }

	cb := scheduler.NewCallbacks()
	cb.Schedule(day(3), 10, "Login Issue", "Forgot Password", 1)
	cb.Schedule(day(3), 11, "Device Issue", "TV", 2)
	cb.Schedule(day(3), 12, "Device Issue", "Phone", 1)
	cb.Schedule(day(4), 13, "Other Issue", "General Inquiry", 1)

	tests := map[string]struct {
		day      civil.Date
		agent    int
		expected []int // customer ids, in schedule order
	}{
		"AgentWithTwoOnDay": {day: day(3), agent: 1, expected: []int{10, 12}},
		"OtherAgentSameDay": {day: day(3), agent: 2, expected: []int{11}},
		"LaterDay":          {day: day(4), agent: 1, expected: []int{13}},
		"NothingDue":        {day: day(5), agent: 1, expected: nil},
		"AgentOwesNothing":  {day: day(3), agent: 3, expected: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got []int
			for _, due := range cb.Due(tt.day, tt.agent) {
				assert.Equal(t, tt.day, due.Day)
				assert.Equal(t, tt.agent, due.AgentID)
				got = append(got, due.CustomerID)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
	assert.Equal(t, 4, cb.Pending())
}

func TestCallbacks_DueKeepsTopic(t *testing.T) {
	day := civil.Date{Year: 2025, Month: time.February, Day: 14}
	cb := scheduler.NewCallbacks()
	cb.Schedule(day, 42, "Claim Status", "Denied", 7)

	assert.Equal(t, []models.PendingCallback{{
		Day: day, CustomerID: 42, Reason: "Claim Status", SubReason: "Denied", AgentID: 7,
	}}, cb.Due(day, 7))
}

func TestCallbacks_Expire(t *testing.T) {
	day := func(d int) civil.Date { return civil.Date{Year: 2025, Month: time.March, Day: d} }

	cb := scheduler.NewCallbacks()
	cb.Schedule(day(1), 1, "r", "s", 1)
	cb.Schedule(day(1), 2, "r", "s", 2)
	cb.Schedule(day(2), 3, "r", "s", 1)

	assert.Equal(t, 2, cb.Expire(day(1)))
	assert.Empty(t, cb.Due(day(1), 1))
	assert.Equal(t, 1, cb.Pending())
	assert.Equal(t, 0, cb.Expire(day(1)), "expiring twice is a no-op")
	assert.Len(t, cb.Due(day(2), 1), 1)
}
