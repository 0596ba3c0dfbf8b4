// Package config builds the immutable simulation parameter set.
//
// A SimulationConfig is only ever produced by New or With, which apply
// options to a copy, derive the customer population when it was not set
// explicitly, and validate the result. Values are passed around by value;
// nothing in the program mutates a config after construction.
package config

import (
	customerrors "callcenter-sim/errors"
	"callcenter-sim/taxonomy"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

// Output formats understood by the partitioned writer.
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
	FormatJSON    = "json"
)

// customersPerDailyCall sizes the default customer pool relative to daily volume.
const customersPerDailyCall = 20

// Seed offsets keep each roster stream independent of the others.
// With the default seed of 289 they reproduce the historical fixed seeds.
const (
	customerNameSeedOffset    = 0
	customerProgramSeedOffset = 26
	agentSeedOffset           = 578
	managerSeedOffset         = -67
	assignmentSeedOffset      = -247
)

// SimulationConfig holds every tunable of a run.
type SimulationConfig struct {
	GlobalStartDate civil.Date
	GlobalEndDate   civil.Date
	Programs        taxonomy.Programs `validate:"required,min=1"`

	AgentsCount    int `validate:"gte=1"`
	ManagersCount  int `validate:"gte=1"`
	CustomersCount int `validate:"gte=1"`

	MinCallLength           int        `validate:"gte=0"`
	CallsPerAgentPerDay     int        `validate:"gte=0"`
	CallbackRate            float64    `validate:"gte=0,lte=1"`
	SurveyRate              float64    `validate:"gte=0,lte=1"`
	PreviousIssueRate       float64    `validate:"gte=0,lte=1"`
	TransferRate            float64    `validate:"gte=0,lte=1"`
	WorkdayStart            int        `validate:"gte=0,lte=23"`
	WorkdayEnd              int        `validate:"gte=1,lte=24,gtfield=WorkdayStart"`
	MeanSecondsBetweenCalls float64    `validate:"gt=0"`
	SeasonalityAmplitude    float64    `validate:"gte=0,lte=1"`
	WeekdayMultipliers      [7]float64 `validate:"dive,gte=0"` // Monday first
	AvgReassignments        int        `validate:"gte=0"`

	RNGSeed       int64
	OutputFormats []string `validate:"required,min=1,dive,oneof=parquet csv json"`

	customersExplicit bool
}

// RosterSeeds are the per-role seeds derived from RNGSeed.
type RosterSeeds struct {
	CustomerNames    int64
	CustomerPrograms int64
	Agents           int64
	Managers         int64
	Assignments      int64
}

// Option adjusts a config under construction.
type Option func(*SimulationConfig)

var validate = validator.New()

func defaults() SimulationConfig {
	return SimulationConfig{
		GlobalStartDate:         civil.Date{Year: 2025, Month: time.January, Day: 1},
		GlobalEndDate:           civil.Date{Year: 2025, Month: time.March, Day: 31},
		Programs:                taxonomy.DefaultPrograms(),
		AgentsCount:             50,
		ManagersCount:           5,
		MinCallLength:           20,
		CallsPerAgentPerDay:     60,
		CallbackRate:            0.1,
		SurveyRate:              0.3,
		PreviousIssueRate:       0.4,
		TransferRate:            0.1,
		WorkdayStart:            8,
		WorkdayEnd:              17,
		MeanSecondsBetweenCalls: 600,
		SeasonalityAmplitude:    0.3,
		WeekdayMultipliers:      [7]float64{1.2, 1.1, 1.0, 1.0, 1.1, 0.8, 0.7},
		AvgReassignments:        2,
		RNGSeed:                 289,
		OutputFormats:           []string{FormatParquet},
	}
}

// New returns the default config with opts applied.
func New(opts ...Option) (SimulationConfig, error) {
	return build(defaults(), opts)
}

// With returns a new validated config with opts applied on top of c.
// If the customer count was derived rather than set, it is derived again.
func (c SimulationConfig) With(opts ...Option) (SimulationConfig, error) {
	return build(c, opts)
}

func build(c SimulationConfig, opts []Option) (SimulationConfig, error) {
	c.Programs = c.Programs.Clone()
	c.OutputFormats = slices.Clone(c.OutputFormats)

	for _, opt := range opts {
		opt(&c)
	}
	if !c.customersExplicit {
		c.CustomersCount = c.AgentsCount * c.CallsPerAgentPerDay * customersPerDailyCall
	}

	if err := validate.Struct(c); err != nil {
		return SimulationConfig{}, fmt.Errorf("%w: %v", customerrors.ErrInvalidConfig, err)
	}
	if c.GlobalEndDate.Before(c.GlobalStartDate) {
		return SimulationConfig{}, fmt.Errorf("%w: end date %s is before start date %s",
			customerrors.ErrInvalidConfig, c.GlobalEndDate, c.GlobalStartDate)
	}
	if !c.GlobalStartDate.IsValid() || !c.GlobalEndDate.IsValid() {
		return SimulationConfig{}, fmt.Errorf("%w: invalid horizon %s..%s",
			customerrors.ErrInvalidConfig, c.GlobalStartDate, c.GlobalEndDate)
	}
	return c, nil
}

// Days returns the number of calendar days in the horizon, inclusive.
func (c SimulationConfig) Days() int {
	return c.GlobalEndDate.DaysSince(c.GlobalStartDate) + 1
}

// CustomersExplicit reports whether the customer count was set rather than derived.
func (c SimulationConfig) CustomersExplicit() bool {
	return c.customersExplicit
}

// Seeds derives the roster seeds from RNGSeed.
func (c SimulationConfig) Seeds() RosterSeeds {
	return RosterSeeds{
		CustomerNames:    c.RNGSeed + customerNameSeedOffset,
		CustomerPrograms: c.RNGSeed + customerProgramSeedOffset,
		Agents:           c.RNGSeed + agentSeedOffset,
		Managers:         c.RNGSeed + managerSeedOffset,
		Assignments:      c.RNGSeed + assignmentSeedOffset,
	}
}

// WeekdayMultiplier returns the volume multiplier for a weekday.
func (c SimulationConfig) WeekdayMultiplier(wd time.Weekday) float64 {
	// time.Weekday counts from Sunday; the table starts on Monday.
	return c.WeekdayMultipliers[(int(wd)+6)%7]
}

func WithStartDate(d civil.Date) Option {
	return func(c *SimulationConfig) { c.GlobalStartDate = d }
}

func WithEndDate(d civil.Date) Option {
	return func(c *SimulationConfig) { c.GlobalEndDate = d }
}

// WithHorizon sets both ends of the simulated date range, inclusive.
func WithHorizon(start, end civil.Date) Option {
	return func(c *SimulationConfig) {
		c.GlobalStartDate = start
		c.GlobalEndDate = end
	}
}

func WithPrograms(p taxonomy.Programs) Option {
	return func(c *SimulationConfig) { c.Programs = p.Clone() }
}

func WithAgents(n int) Option {
	return func(c *SimulationConfig) { c.AgentsCount = n }
}

func WithManagers(n int) Option {
	return func(c *SimulationConfig) { c.ManagersCount = n }
}

// WithCustomers pins the customer count. Without it the count is derived.
func WithCustomers(n int) Option {
	return func(c *SimulationConfig) {
		c.CustomersCount = n
		c.customersExplicit = true
	}
}

func WithMinCallLength(seconds int) Option {
	return func(c *SimulationConfig) { c.MinCallLength = seconds }
}

func WithCallsPerAgentPerDay(n int) Option {
	return func(c *SimulationConfig) { c.CallsPerAgentPerDay = n }
}

func WithCallbackRate(p float64) Option {
	return func(c *SimulationConfig) { c.CallbackRate = p }
}

func WithSurveyRate(p float64) Option {
	return func(c *SimulationConfig) { c.SurveyRate = p }
}

func WithPreviousIssueRate(p float64) Option {
	return func(c *SimulationConfig) { c.PreviousIssueRate = p }
}

func WithTransferRate(p float64) Option {
	return func(c *SimulationConfig) { c.TransferRate = p }
}

// WithWorkday sets the opening and closing hour of each simulated day.
func WithWorkday(startHour, endHour int) Option {
	return func(c *SimulationConfig) {
		c.WorkdayStart = startHour
		c.WorkdayEnd = endHour
	}
}

func WithMeanSecondsBetweenCalls(seconds float64) Option {
	return func(c *SimulationConfig) { c.MeanSecondsBetweenCalls = seconds }
}

func WithSeasonalityAmplitude(a float64) Option {
	return func(c *SimulationConfig) { c.SeasonalityAmplitude = a }
}

// WithWeekdayMultipliers sets the Monday-first volume table.
func WithWeekdayMultipliers(m [7]float64) Option {
	return func(c *SimulationConfig) { c.WeekdayMultipliers = m }
}

func WithAvgReassignments(n int) Option {
	return func(c *SimulationConfig) { c.AvgReassignments = n }
}

func WithSeed(seed int64) Option {
	return func(c *SimulationConfig) { c.RNGSeed = seed }
}

func WithOutputFormats(formats ...string) Option {
	return func(c *SimulationConfig) { c.OutputFormats = slices.Clone(formats) }
}
