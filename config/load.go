package config

import (
	"callcenter-sim/parser"
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Settings is everything a generator run needs: the simulation parameters
// plus where to put the output.
type Settings struct {
	Simulation SimulationConfig
	OutputDir  string
	SeedDir    string
}

// envConfig mirrors the CALLSIM_* environment surface. It is pre-filled
// with the defaults so unset variables leave the defaults untouched.
type envConfig struct {
	GlobalStartDate         string    `env:"CALLSIM_GLOBAL_START_DATE"`
	GlobalEndDate           string    `env:"CALLSIM_GLOBAL_END_DATE"`
	AgentsCount             int       `env:"CALLSIM_AGENTS_COUNT"`
	ManagersCount           int       `env:"CALLSIM_MANAGERS_COUNT"`
	CustomersCount          int       `env:"CALLSIM_CUSTOMERS_COUNT"` // 0 derives the count
	MinCallLength           int       `env:"CALLSIM_MIN_CALL_LENGTH"`
	CallsPerAgentPerDay     int       `env:"CALLSIM_CALLS_PER_AGENT_PER_DAY"`
	CallbackRate            float64   `env:"CALLSIM_CALLBACK_RATE"`
	SurveyRate              float64   `env:"CALLSIM_SURVEY_RATE"`
	PreviousIssueRate       float64   `env:"CALLSIM_PREVIOUS_ISSUE_RATE"`
	TransferRate            float64   `env:"CALLSIM_TRANSFER_RATE"`
	WorkdayStart            int       `env:"CALLSIM_WORKDAY_START"`
	WorkdayEnd              int       `env:"CALLSIM_WORKDAY_END"`
	MeanSecondsBetweenCalls float64   `env:"CALLSIM_MEAN_SECONDS_BETWEEN_CALLS"`
	SeasonalityAmplitude    float64   `env:"CALLSIM_SEASONALITY_AMPLITUDE"`
	WeekdayMultipliers      []float64 `env:"CALLSIM_WEEKDAY_MULTIPLIERS" envSeparator:","`
	AvgReassignments        int       `env:"CALLSIM_AVG_REASSIGNMENTS"`
	RNGSeed                 int64     `env:"CALLSIM_RNG_SEED"`
	OutputFormats           []string  `env:"CALLSIM_OUTPUT_FORMATS" envSeparator:","`
	ProgramsFile            string    `env:"CALLSIM_PROGRAMS_FILE"`
	OutputDir               string    `env:"CALLSIM_OUTPUT_DIR"`
	SeedDir                 string    `env:"CALLSIM_SEED_DIR"`
}

// Load reads .env (if present) and CALLSIM_* variables over the defaults,
// then applies opts last so callers such as CLI flags win.
func Load(opts ...Option) (Settings, error) {
	_ = godotenv.Load()

	base := defaults()
	ec := envConfig{
		GlobalStartDate:         base.GlobalStartDate.String(),
		GlobalEndDate:           base.GlobalEndDate.String(),
		AgentsCount:             base.AgentsCount,
		ManagersCount:           base.ManagersCount,
		MinCallLength:           base.MinCallLength,
		CallsPerAgentPerDay:     base.CallsPerAgentPerDay,
		CallbackRate:            base.CallbackRate,
		SurveyRate:              base.SurveyRate,
		PreviousIssueRate:       base.PreviousIssueRate,
		TransferRate:            base.TransferRate,
		WorkdayStart:            base.WorkdayStart,
		WorkdayEnd:              base.WorkdayEnd,
		MeanSecondsBetweenCalls: base.MeanSecondsBetweenCalls,
		SeasonalityAmplitude:    base.SeasonalityAmplitude,
		WeekdayMultipliers:      base.WeekdayMultipliers[:],
		AvgReassignments:        base.AvgReassignments,
		RNGSeed:                 base.RNGSeed,
		OutputFormats:           base.OutputFormats,
		OutputDir:               "data",
		SeedDir:                 "seeds",
	}
	if err := env.Parse(&ec); err != nil {
		return Settings{}, fmt.Errorf("error reading environment: %w", err)
	}

	envOpts, err := ec.options()
	if err != nil {
		return Settings{}, err
	}

	sim, err := build(base, append(envOpts, opts...))
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Simulation: sim,
		OutputDir:  ec.OutputDir,
		SeedDir:    ec.SeedDir,
	}, nil
}

func (ec envConfig) options() ([]Option, error) {
	start, err := parser.ParseDate(ec.GlobalStartDate)
	if err != nil {
		return nil, fmt.Errorf("CALLSIM_GLOBAL_START_DATE: %w", err)
	}
	end, err := parser.ParseDate(ec.GlobalEndDate)
	if err != nil {
		return nil, fmt.Errorf("CALLSIM_GLOBAL_END_DATE: %w", err)
	}
	if len(ec.WeekdayMultipliers) != 7 {
		return nil, fmt.Errorf("CALLSIM_WEEKDAY_MULTIPLIERS: want 7 values, got %d", len(ec.WeekdayMultipliers))
	}
	var weekdays [7]float64
	copy(weekdays[:], ec.WeekdayMultipliers)

	opts := []Option{
		WithHorizon(start, end),
		WithAgents(ec.AgentsCount),
		WithManagers(ec.ManagersCount),
		WithMinCallLength(ec.MinCallLength),
		WithCallsPerAgentPerDay(ec.CallsPerAgentPerDay),
		WithCallbackRate(ec.CallbackRate),
		WithSurveyRate(ec.SurveyRate),
		WithPreviousIssueRate(ec.PreviousIssueRate),
		WithTransferRate(ec.TransferRate),
		WithWorkday(ec.WorkdayStart, ec.WorkdayEnd),
		WithMeanSecondsBetweenCalls(ec.MeanSecondsBetweenCalls),
		WithSeasonalityAmplitude(ec.SeasonalityAmplitude),
		WithWeekdayMultipliers(weekdays),
		WithAvgReassignments(ec.AvgReassignments),
		WithSeed(ec.RNGSeed),
		WithOutputFormats(ec.OutputFormats...),
	}
	if ec.CustomersCount > 0 {
		opts = append(opts, WithCustomers(ec.CustomersCount))
	}
	if ec.ProgramsFile != "" {
		opt, err := ProgramsFromFile(ec.ProgramsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// ProgramsFromFile reads a YAML program table and returns it as an Option.
func ProgramsFromFile(path string) (Option, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening program table: %w", err)
	}
	defer f.Close()

	programs, err := parser.ParsePrograms(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing program table %s: %w", path, err)
	}
	return WithPrograms(programs), nil
}
