package parser

import (
	"bytes"
	"callcenter-sim/errors"
	"callcenter-sim/taxonomy"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"
)

// programFile is the on-disk layout of a program table:
//
//	programs:
//	  - name: Technical Support
//	    reasons:
//	      - name: Device Issue
//	        prob: 0.5
//	        sub_reasons:
//	          - {name: Phone, prob: 0.55, duration_mean: 300, duration_std: 60}
type programFile struct {
	Programs []yaml.Node `yaml:"programs"`
}

// ParsePrograms reads a YAML program table.
// Every program needs a name and at least one reason, and every reason at
// least one sub-reason. Probabilities are taken as written; they are not
// checked for normalization.
func ParsePrograms(r io.Reader) (taxonomy.Programs, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file programFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, &errors.ParseError{Err: fmt.Errorf("%w: empty document", errors.ErrInvalidProgramTable)}
		}
		return nil, &errors.ParseError{Err: fmt.Errorf("%w: %v", errors.ErrInvalidProgramTable, err)}
	}
	if len(file.Programs) == 0 {
		return nil, &errors.ParseError{Err: fmt.Errorf("%w: no programs", errors.ErrInvalidProgramTable)}
	}

	programs := make(taxonomy.Programs, 0, len(file.Programs))
	seen := make(map[string]bool, len(file.Programs))

	for _, node := range file.Programs {
		var p taxonomy.Program
		if err := decodeStrict(&node, &p); err != nil {
			return nil, &errors.ParseError{
				Line: node.Line,
				Err:  fmt.Errorf("%w: %v", errors.ErrInvalidProgramTable, err),
			}
		}
		p.Name = strings.TrimSpace(p.Name)

		if err := checkProgram(p, seen); err != nil {
			return nil, &errors.ParseError{
				Line:   node.Line,
				Record: []string{p.Name},
				Err:    fmt.Errorf("%w: %v", errors.ErrInvalidProgramTable, err),
			}
		}
		seen[p.Name] = true
		programs = append(programs, p)
	}

	return programs, nil
}

// decodeStrict decodes a single node, rejecting keys the target does not
// declare. yaml.Node.Decode ignores them, so the node is re-encoded and read
// back through a KnownFields decoder.
func decodeStrict(node *yaml.Node, v any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(v)
}

func checkProgram(p taxonomy.Program, seen map[string]bool) error {
	if p.Name == "" {
		return fmt.Errorf("program without a name")
	}
	if seen[p.Name] {
		return fmt.Errorf("duplicate program %q", p.Name)
	}
	if len(p.Reasons) == 0 {
		return fmt.Errorf("program %q has no reasons", p.Name)
	}
	for _, r := range p.Reasons {
		if r.Name == "" {
			return fmt.Errorf("program %q has a reason without a name", p.Name)
		}
		if len(r.SubReasons) == 0 {
			return fmt.Errorf("reason %q has no sub-reasons", r.Name)
		}
		for _, s := range r.SubReasons {
			if s.Name == "" {
				return fmt.Errorf("reason %q has a sub-reason without a name", r.Name)
			}
		}
	}
	return nil
}

// ParseDate parses an ISO calendar date such as 2025-01-31.
func ParseDate(value string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return civil.Date{}, &errors.ParseError{
			Record: []string{value},
			Err:    fmt.Errorf("%w: %v", errors.ErrInvalidDate, err),
		}
	}
	return d, nil
}
