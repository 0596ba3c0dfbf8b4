// Package roster generates the agent, manager and customer populations.
//
// Every generator is a pure function of its count and seed: the same inputs
// give identical rosters, and ids are dense and 1-based.
package roster

import (
	"callcenter-sim/models"
	"math"
	"math/rand/v2"
	"time"

	"cloud.google.com/go/civil"
	"github.com/brianvoe/gofakeit/v7"
)

// Customers are born between 21 and 77 years (of 365 days) before the horizon starts.
const (
	minCustomerAgeDays = 21 * 365
	maxCustomerAgeDays = 77 * 365
)

// Agents returns count agents with synthesized names.
func Agents(count int, seed int64) []models.Agent {
	fake := faker(seed)
	agents := make([]models.Agent, count)
	for i := range count {
		agents[i] = models.Agent{AgentID: i + 1, AgentName: fake.Name()}
	}
	return agents
}

// Managers returns count managers with synthesized names.
func Managers(count int, seed int64) []models.Manager {
	fake := faker(seed)
	managers := make([]models.Manager, count)
	for i := range count {
		managers[i] = models.Manager{ManagerID: i + 1, ManagerName: fake.Name()}
	}
	return managers
}

// Customers returns count customers. Personal details come from nameSeed and
// the program assignment from programSeed, so either stream can change
// without disturbing the other. Programs are drawn uniformly by index and
// each zip code lies in the customer's state.
func Customers(count int, nameSeed, programSeed int64, programs []string, horizonStart civil.Date) []models.Customer {
	fake := faker(nameSeed)
	pick := rand.New(rand.NewPCG(uint64(programSeed), uint64(programSeed)))

	oldest := horizonStart.AddDays(-maxCustomerAgeDays).In(time.UTC)
	youngest := horizonStart.AddDays(-minCustomerAgeDays).In(time.UTC)

	customers := make([]models.Customer, count)
	for i := range count {
		var program string
		if len(programs) > 0 {
			program = programs[pick.IntN(len(programs))]
		}
		state := fake.StateAbr()
		customers[i] = models.Customer{
			CustomerID: i + 1,
			State:      state,
			FirstName:  fake.FirstName(),
			LastName:   fake.LastName(),
			BirthDate:  civil.DateOf(fake.DateRange(oldest, youngest)),
			ZipCode:    zipInState(fake, state),
			Program:    program,
		}
	}
	return customers
}

// faker returns a seeded generator. gofakeit treats seed 0 as "pick a random
// seed", so 0 is remapped to keep every seed deterministic.
func faker(seed int64) *gofakeit.Faker {
	s := uint64(seed)
	if s == 0 {
		s = math.MaxUint64
	}
	return gofakeit.New(s)
}
