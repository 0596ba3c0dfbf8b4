// Package simulator runs the day-by-day call center event loop.
//
// A Simulator owns every piece of state that changes during a run: the
// random source, the customer availability map, the callback queue and the
// event id counters. Rosters and the program table are read-only inputs.
// All randomness comes from one seeded source consumed in a fixed order, so
// the same config and rosters always produce the same events.
package simulator

import (
	"callcenter-sim/config"
	customerrors "callcenter-sim/errors"
	"callcenter-sim/metrics"
	"callcenter-sim/models"
	"callcenter-sim/scheduler"
	"callcenter-sim/taxonomy"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// maxCustomerAttempts bounds the search for a free customer on a new call.
	maxCustomerAttempts = 15

	queueHoldMean = 45
	queueHoldStd  = 20
	queueHoldMax  = 300

	maxCallbackDays = 5

	surveySentDelay = 5 * time.Second
)

// Sink receives each day's record batches.
type Sink interface {
	WriteCalls(day civil.Date, rows []models.CallEvent) error
	WriteCRM(day civil.Date, rows []models.CRMEvent) error
	WriteSurveys(day civil.Date, rows []models.SurveyEvent) error
}

// Stats are the running totals of a simulation.
type Stats struct {
	Days                  int
	Calls                 int64
	CRM                   int64
	Surveys               int64
	CallbacksScheduled    int64
	CallbacksOutOfHorizon int64
	CallbacksCompleted    int64
	CallbacksDropped      int64
}

// window is when a customer is next free: after their latest call, and
// after any hold placed while they wait for a promised callback.
type window struct {
	onCall time.Time
	held   time.Time
}

// availability maps customer id to its window.
type availability map[int]window

func (a availability) freeAt(customerID int, t time.Time) bool {
	w := a[customerID]
	return !w.onCall.After(t) && !w.held.After(t)
}

// occupy records a call ending at end. Windows only ever grow.
func (a availability) occupy(customerID int, end time.Time) {
	w := a[customerID]
	if end.After(w.onCall) {
		w.onCall = end
		a[customerID] = w
	}
}

// reserveUntil keeps the customer out of the new-call pool until t.
func (a availability) reserveUntil(customerID int, t time.Time) {
	w := a[customerID]
	if t.After(w.held) {
		w.held = t
		a[customerID] = w
	}
}

// callEnd returns when the customer's latest call ends.
func (a availability) callEnd(customerID int) time.Time {
	return a[customerID].onCall
}

// workItem is one slot in an agent's day: a fresh call, or a callback owed.
type workItem struct {
	callback *models.PendingCallback
}

// Simulator generates call, CRM and survey events for a horizon.
// A Simulator is single use and not safe for concurrent use.
type Simulator struct {
	cfg       config.SimulationConfig
	model     *taxonomy.Model
	agents    []models.Agent
	customers []models.Customer
	sink      Sink
	log       logrus.FieldLogger

	rng       *rand.Rand
	busy      availability
	callbacks *scheduler.Callbacks

	nextCallID   int64
	nextCRMID    int64
	nextSurveyID int64
	stats        Stats
}

// New prepares a simulation over agents and customers. Customers must carry
// dense 1-based ids. Every customer starts out free from midnight of the
// first simulated day.
func New(cfg config.SimulationConfig, agents []models.Agent, customers []models.Customer, sink Sink, log logrus.FieldLogger) *Simulator {
	agents = slices.Clone(agents)
	slices.SortFunc(agents, func(a, b models.Agent) int { return a.AgentID - b.AgentID })

	busy := make(availability, len(customers))
	midnight := cfg.GlobalStartDate.In(time.UTC)
	for _, c := range customers {
		busy.reserveUntil(c.CustomerID, midnight)
	}

	return &Simulator{
		cfg:       cfg,
		model:     taxonomy.NewModel(cfg.Programs, cfg.MinCallLength),
		agents:    agents,
		customers: customers,
		sink:      sink,
		log:       log,
		rng:       rand.New(rand.NewPCG(uint64(cfg.RNGSeed), uint64(cfg.RNGSeed))),
		busy:      busy,
		callbacks: scheduler.NewCallbacks(),
	}
}

// Run simulates every day of the horizon in calendar order and hands each
// day's batches to the sink. It stops at the first error; batches already
// written stay on disk.
func (s *Simulator) Run(ctx context.Context) (Stats, error) {
	metrics.ResetSimulatorGauges()

	for day := s.cfg.GlobalStartDate; !day.After(s.cfg.GlobalEndDate); day = day.AddDays(1) {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}

		started := time.Now()
		if err := s.simulateDay(day); err != nil {
			return s.stats, fmt.Errorf("simulating %s: %w", day, err)
		}
		metrics.DayDurationSeconds.Observe(time.Since(started).Seconds())

		s.stats.Days++
		metrics.DaysSimulated.Inc()
	}
	return s.stats, nil
}

// VolumeMultiplier scales the daily call volume for day: the weekday factor
// times a monthly cosine cycle keyed on the day of the month.
func VolumeMultiplier(cfg config.SimulationConfig, day civil.Date) float64 {
	t := day.In(time.UTC)
	daysInMonth := time.Date(day.Year, day.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	seasonal := 1 + cfg.SeasonalityAmplitude*math.Cos(2*math.Pi*float64(day.Day)/float64(daysInMonth))
	return cfg.WeekdayMultiplier(t.Weekday()) * seasonal
}

func (s *Simulator) simulateDay(day civil.Date) error {
	nCalls := int(float64(s.cfg.CallsPerAgentPerDay) * VolumeMultiplier(s.cfg, day))

	var (
		calls   []models.CallEvent
		crm     []models.CRMEvent
		surveys = make(map[civil.Date][]models.SurveyEvent)
	)

	for _, agent := range s.agents {
		due := s.callbacks.Due(day, agent.AgentID)
		items := make([]workItem, nCalls, nCalls+len(due))
		for i := range due {
			items = append(items, workItem{callback: &due[i]})
		}
		s.rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})

		cursor := time.Date(day.Year, day.Month, day.Day, s.cfg.WorkdayStart, 0, 0, 0, time.UTC)
		for i, item := range items {
			queueHold := s.queueHold()
			gap := s.interArrival()
			cursor = cursor.Add(seconds(float64(queueHold) + gap))

			var (
				customerID int
				draw       taxonomy.Draw
				prevIssue  bool
				err        error
			)
			if item.callback != nil {
				customerID, draw, prevIssue, err = s.resolveCallback(*item.callback)
				// The customer may already be on a call with an agent that ran
				// earlier today; the owing agent waits for them.
				if err == nil {
					cursor = latest(cursor, s.busy.callEnd(customerID))
				}
			} else {
				customerID, draw, err = s.newCall(cursor)
			}
			if err != nil {
				return err
			}

			end := cursor.Add(time.Duration(draw.Duration) * time.Second)
			s.busy.occupy(customerID, end)

			if end.Hour() >= s.cfg.WorkdayEnd || civil.DateOf(end) != day {
				if dropped := countCallbacks(items[i:]); dropped > 0 {
					s.stats.CallbacksDropped += int64(dropped)
					metrics.CallbacksDroppedTotal.Add(float64(dropped))
					s.log.WithFields(logrus.Fields{
						"date":     day.String(),
						"agent_id": agent.AgentID,
						"dropped":  dropped,
					}).Debug("Workday ended with callbacks still due")
				}
				break
			}

			transfer := s.rng.Float64() < s.cfg.TransferRate
			holdDuring := s.rng.IntN(draw.Duration/2 + 1)

			s.nextCallID++
			s.nextCRMID++
			call := models.CallEvent{
				CallID:              s.nextCallID,
				AgentID:             agent.AgentID,
				CustomerID:          customerID,
				QueueHoldTime:       queueHold,
				StartTS:             cursor,
				EndTS:               end,
				DurationS:           draw.Duration,
				HoldTimeDuringCallS: holdDuring,
				TransferFlag:        transfer,
			}
			calls = append(calls, call)
			crm = append(crm, models.CRMEvent{
				CRMID:             s.nextCRMID,
				AgentID:           agent.AgentID,
				CallID:            call.CallID,
				CustomerID:        customerID,
				ReasonCode:        draw.Reason,
				SubReasonCode:     draw.SubReason,
				PreviousIssueFlag: prevIssue,
				CreatedTS:         cursor,
			})
			if item.callback != nil {
				s.stats.CallbacksCompleted++
				metrics.CallbacksCompletedTotal.Inc()
			}

			if s.rng.Float64() < s.cfg.SurveyRate {
				survey := s.survey(call, prevIssue)
				respDay := civil.DateOf(survey.ResponseTS)
				surveys[respDay] = append(surveys[respDay], survey)
			}

			if item.callback == nil && s.rng.Float64() < s.cfg.CallbackRate {
				s.scheduleCallback(day, agent.AgentID, customerID, draw, end)
			}

			cursor = end
		}
	}
	s.callbacks.Expire(day)

	if err := s.flush(day, calls, crm, surveys); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"date":              day.String(),
		"calls":             s.stats.Calls,
		"crm":               s.stats.CRM,
		"surveys":           s.stats.Surveys,
		"pending_callbacks": s.callbacks.Pending(),
	}).Info("Simulated day")
	return nil
}

// queueHold draws the seconds a caller waited before being answered.
func (s *Simulator) queueHold() int {
	h := int(distuv.Normal{Mu: queueHoldMean, Sigma: queueHoldStd, Src: s.rng}.Rand())
	return min(max(h, 0), queueHoldMax)
}

// interArrival draws the idle gap, in seconds, before the next call.
func (s *Simulator) interArrival() float64 {
	return distuv.Exponential{Rate: 1 / s.cfg.MeanSecondsBetweenCalls, Src: s.rng}.Rand()
}

// newCall finds a free customer and samples a topic from their program.
func (s *Simulator) newCall(at time.Time) (int, taxonomy.Draw, error) {
	if len(s.customers) == 0 {
		return 0, taxonomy.Draw{}, fmt.Errorf("%w: customer pool is empty", customerrors.ErrNoAvailableCustomer)
	}

	var customer *models.Customer
	for attempt := 1; attempt <= maxCustomerAttempts; attempt++ {
		candidate := &s.customers[s.rng.IntN(len(s.customers))]
		if s.busy.freeAt(candidate.CustomerID, at) {
			customer = candidate
			metrics.CustomerSearchAttempts.Observe(float64(attempt))
			break
		}
	}
	if customer == nil {
		metrics.CustomerSearchAttempts.Observe(maxCustomerAttempts)
		return 0, taxonomy.Draw{}, fmt.Errorf("%w at %s after %d attempts",
			customerrors.ErrNoAvailableCustomer, at.Format(models.TimestampLayout), maxCustomerAttempts)
	}

	draw, err := s.model.Sample(s.rng, customer.Program)
	if err != nil {
		return 0, taxonomy.Draw{}, err
	}
	return customer.CustomerID, draw, nil
}

// resolveCallback keeps the promised topic and draws a fresh duration.
func (s *Simulator) resolveCallback(cb models.PendingCallback) (int, taxonomy.Draw, bool, error) {
	customer, err := s.customer(cb.CustomerID)
	if err != nil {
		return 0, taxonomy.Draw{}, false, err
	}

	prevIssue := s.rng.Float64() < s.cfg.PreviousIssueRate
	draw, err := s.model.ResampleDuration(s.rng, customer.Program, cb.Reason, cb.SubReason)
	if err != nil {
		return 0, taxonomy.Draw{}, false, err
	}
	return customer.CustomerID, draw, prevIssue, nil
}

func (s *Simulator) customer(id int) (*models.Customer, error) {
	if id < 1 || id > len(s.customers) || s.customers[id-1].CustomerID != id {
		return nil, fmt.Errorf("%w: %d", customerrors.ErrUnknownCustomer, id)
	}
	return &s.customers[id-1], nil
}

// survey draws the response to a finished call.
func (s *Simulator) survey(call models.CallEvent, prevIssue bool) models.SurveyEvent {
	delay := time.Duration(s.rng.IntN(46)+15)*time.Second + time.Duration(s.rng.IntN(4))*24*time.Hour

	csatMean := 4.0
	if call.TransferFlag && call.HoldTimeDuringCallS >= 60 {
		csatMean = 2.0
	}
	csat := distuv.Normal{Mu: csatMean, Sigma: 1, Src: s.rng}.Rand()
	csat = min(max(csat, 1), 5)

	unhappy := call.TransferFlag || call.QueueHoldTime > 120 || prevIssue

	s.nextSurveyID++
	return models.SurveyEvent{
		SurveyID:   s.nextSurveyID,
		CallID:     call.CallID,
		AgentID:    call.AgentID,
		CustomerID: call.CustomerID,
		SentTS:     call.EndTS.Add(surveySentDelay),
		ResponseTS: call.EndTS.Add(delay),
		CSAT:       int(csat),
		NPS:        s.nps(unhappy),
	}
}

// NPS categories: promoter, passive, detractor.
var (
	npsWeights        = []float64{0.6, 0.2, 0.2}
	npsUnhappyWeights = []float64{0.4, 0.2, 0.4}
)

func (s *Simulator) nps(unhappy bool) int {
	weights := npsWeights
	if unhappy {
		weights = npsUnhappyWeights
	}
	switch taxonomy.Pick(weights, s.rng.Float64()) {
	case 0:
		return s.rng.IntN(2) + 9
	case 1:
		return s.rng.IntN(2) + 7
	default:
		return s.rng.IntN(6) + 1
	}
}

// scheduleCallback promises a follow-up 1 to 5 days out, owed by another
// agent, and keeps the customer off the new-call pool until that day.
// Targets past the horizon are not queued.
func (s *Simulator) scheduleCallback(day civil.Date, agentID, customerID int, draw taxonomy.Draw, end time.Time) {
	target := day.AddDays(s.rng.IntN(maxCallbackDays) + 1)
	if target.After(s.cfg.GlobalEndDate) {
		s.stats.CallbacksOutOfHorizon++
		metrics.CallbacksOutOfHorizonTotal.Inc()
		return
	}
	if len(s.agents) < 2 {
		// Nobody else to owe it.
		return
	}

	owner := s.otherAgent(agentID)
	s.callbacks.Schedule(target, customerID, draw.Reason, draw.SubReason, owner)
	s.busy.reserveUntil(customerID, target.In(time.UTC))

	s.stats.CallbacksScheduled++
	metrics.CallbacksScheduledTotal.Inc()
	s.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"from_agent":  agentID,
		"to_agent":    owner,
		"due":         target.String(),
		"promised_at": end.Format(models.TimestampLayout),
	}).Trace("Scheduled callback")
}

// otherAgent picks uniformly among every agent except agentID.
func (s *Simulator) otherAgent(agentID int) int {
	idx := s.rng.IntN(len(s.agents) - 1)
	self := slices.IndexFunc(s.agents, func(a models.Agent) bool { return a.AgentID == agentID })
	if idx >= self {
		idx++
	}
	return s.agents[idx].AgentID
}

func (s *Simulator) flush(day civil.Date, calls []models.CallEvent, crm []models.CRMEvent, surveys map[civil.Date][]models.SurveyEvent) error {
	if err := s.sink.WriteCalls(day, calls); err != nil {
		return err
	}
	if err := s.sink.WriteCRM(day, crm); err != nil {
		return err
	}

	days := make([]civil.Date, 0, len(surveys))
	for d := range surveys {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b civil.Date) int { return a.DaysSince(b) })

	for _, d := range days {
		if err := s.sink.WriteSurveys(d, surveys[d]); err != nil {
			return err
		}
		s.stats.Surveys += int64(len(surveys[d]))
		metrics.SurveysTotal.Add(float64(len(surveys[d])))
	}

	s.stats.Calls += int64(len(calls))
	s.stats.CRM += int64(len(crm))
	metrics.CallsTotal.Add(float64(len(calls)))
	metrics.CRMTotal.Add(float64(len(crm)))
	return nil
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func countCallbacks(items []workItem) int {
	n := 0
	for _, item := range items {
		if item.callback != nil {
			n++
		}
	}
	return n
}

// seconds converts fractional seconds to a duration at microsecond precision,
// the resolution every output format keeps.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Truncate(time.Microsecond)
}
