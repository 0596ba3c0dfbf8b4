// Package taxonomy holds the program → reason → sub-reason call table and
// the weighted sampler that draws call topics and durations from it.
package taxonomy

import (
	customerrors "callcenter-sim/errors"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SubReason is the leaf of the taxonomy. Durations are in seconds.
type SubReason struct {
	Name         string  `yaml:"name"`
	Prob         float64 `yaml:"prob"`
	DurationMean float64 `yaml:"duration_mean"`
	DurationStd  float64 `yaml:"duration_std"`
}

// Reason groups sub-reasons under a selection weight.
type Reason struct {
	Name       string      `yaml:"name"`
	Prob       float64     `yaml:"prob"`
	SubReasons []SubReason `yaml:"sub_reasons"`
}

// Program is a business line; it decides the reason distribution of its customers.
type Program struct {
	Name    string   `yaml:"name"`
	Reasons []Reason `yaml:"reasons"`
}

// Programs is an ordered program table. Order matters: customers draw their
// program by index, so reordering changes generated rosters.
type Programs []Program

// Names returns program names in table order.
func (p Programs) Names() []string {
	names := make([]string, len(p))
	for i, prog := range p {
		names[i] = prog.Name
	}
	return names
}

// Lookup returns the program with the given name.
func (p Programs) Lookup(name string) (*Program, error) {
	for i := range p {
		if p[i].Name == name {
			return &p[i], nil
		}
	}
	return nil, &customerrors.LookupError{Kind: customerrors.LookupProgram, Program: name, Name: name}
}

// Clone returns a deep copy so callers can tweak a table without touching the original.
func (p Programs) Clone() Programs {
	out := make(Programs, len(p))
	for i, prog := range p {
		reasons := make([]Reason, len(prog.Reasons))
		for j, r := range prog.Reasons {
			subs := make([]SubReason, len(r.SubReasons))
			copy(subs, r.SubReasons)
			reasons[j] = Reason{Name: r.Name, Prob: r.Prob, SubReasons: subs}
		}
		out[i] = Program{Name: prog.Name, Reasons: reasons}
	}
	return out
}

// Draw is the result of a taxonomy sample.
type Draw struct {
	Reason    string
	SubReason string
	Duration  int
}

// Model samples call topics and durations for a program table.
type Model struct {
	programs      Programs
	minCallLength int
}

// NewModel returns a Model over programs. Durations never fall below minCallLength.
func NewModel(programs Programs, minCallLength int) *Model {
	return &Model{programs: programs, minCallLength: minCallLength}
}

// Programs returns the table the model samples from.
func (m *Model) Programs() Programs {
	return m.programs
}

// Sample draws a reason, then a sub-reason, then a duration for the program.
// Three draws are consumed from rng, in that order.
func (m *Model) Sample(rng *rand.Rand, program string) (Draw, error) {
	prog, err := m.programs.Lookup(program)
	if err != nil {
		return Draw{}, err
	}
	if len(prog.Reasons) == 0 {
		return Draw{}, &customerrors.LookupError{Kind: customerrors.LookupReason, Program: program}
	}

	reason := prog.Reasons[Pick(reasonWeights(prog.Reasons), rng.Float64())]
	if len(reason.SubReasons) == 0 {
		return Draw{}, &customerrors.LookupError{Kind: customerrors.LookupSubReason, Program: program}
	}
	sub := reason.SubReasons[Pick(subReasonWeights(reason.SubReasons), rng.Float64())]

	return Draw{
		Reason:    reason.Name,
		SubReason: sub.Name,
		Duration:  m.duration(rng, sub),
	}, nil
}

// ResampleDuration resolves an exact reason/sub-reason pair and draws only a
// fresh duration for it. Used for callbacks, which keep their promised topic.
func (m *Model) ResampleDuration(rng *rand.Rand, program, reason, subReason string) (Draw, error) {
	prog, err := m.programs.Lookup(program)
	if err != nil {
		return Draw{}, err
	}

	var r *Reason
	for i := range prog.Reasons {
		if prog.Reasons[i].Name == reason {
			r = &prog.Reasons[i]
			break
		}
	}
	if r == nil {
		return Draw{}, &customerrors.LookupError{Kind: customerrors.LookupReason, Program: program, Name: reason}
	}

	for _, sub := range r.SubReasons {
		if sub.Name == subReason {
			return Draw{Reason: reason, SubReason: subReason, Duration: m.duration(rng, sub)}, nil
		}
	}
	return Draw{}, &customerrors.LookupError{Kind: customerrors.LookupSubReason, Program: program, Name: subReason}
}

func (m *Model) duration(rng *rand.Rand, sub SubReason) int {
	d := int(distuv.Normal{Mu: sub.DurationMean, Sigma: sub.DurationStd, Src: rng}.Rand())
	return max(m.minCallLength, d)
}

func reasonWeights(reasons []Reason) []float64 {
	w := make([]float64, len(reasons))
	for i, r := range reasons {
		w[i] = r.Prob
	}
	return w
}

func subReasonWeights(subs []SubReason) []float64 {
	w := make([]float64, len(subs))
	for i, s := range subs {
		w[i] = s.Prob
	}
	return w
}
