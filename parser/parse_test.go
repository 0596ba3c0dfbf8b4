package parser_test

import (
	customerrors "callcenter-sim/errors"
	"callcenter-sim/parser"
	"callcenter-sim/taxonomy"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestParsePrograms(t *testing.T) {
	tests := map[string]struct {
		input         string
		expectedData  taxonomy.Programs
		expectedError error
		expectedLine  int
	}{
		"ValidInput_SingleProgram": {
			input: `
programs:
  - name: Billing
    reasons:
      - name: Invoice
        prob: 1.0
        sub_reasons:
          - {name: Late Fee, prob: 0.6, duration_mean: 240, duration_std: 30}
          - {name: Refund, prob: 0.4, duration_mean: 400, duration_std: 90}
`,
			expectedData: taxonomy.Programs{
				{
					Name: "Billing",
					Reasons: []taxonomy.Reason{
						{
							Name: "Invoice",
							Prob: 1.0,
							SubReasons: []taxonomy.SubReason{
								{Name: "Late Fee", Prob: 0.6, DurationMean: 240, DurationStd: 30},
								{Name: "Refund", Prob: 0.4, DurationMean: 400, DurationStd: 90},
							},
						},
					},
				},
			},
		},
		"ValidInput_UnnormalizedWeightsKept": {
			input: `
programs:
  - name: Odd
    reasons:
      - name: A
        prob: 3
        sub_reasons:
          - {name: A1, prob: 7, duration_mean: 60, duration_std: 5}
`,
			expectedData: taxonomy.Programs{
				{
					Name: "Odd",
					Reasons: []taxonomy.Reason{
						{Name: "A", Prob: 3, SubReasons: []taxonomy.SubReason{
							{Name: "A1", Prob: 7, DurationMean: 60, DurationStd: 5},
						}},
					},
				},
			},
		},
		"InvalidInput_Empty": {
			input:         ``,
			expectedError: customerrors.ErrInvalidProgramTable,
		},
		"InvalidInput_NoPrograms": {
			input:         `programs: []`,
			expectedError: customerrors.ErrInvalidProgramTable,
		},
		"InvalidInput_UnknownTopLevelField": {
			input:         `plans: []`,
			expectedError: customerrors.ErrInvalidProgramTable,
		},
		"InvalidInput_MissingSubReasons": {
			input: `
programs:
  - name: Billing
    reasons:
      - name: Invoice
        prob: 1.0
`,
			expectedError: customerrors.ErrInvalidProgramTable,
			expectedLine:  2,
		},
		"InvalidInput_DuplicateProgram": {
			input: `
programs:
  - name: Billing
    reasons:
      - name: Invoice
        prob: 1.0
        sub_reasons:
          - {name: Late Fee, prob: 1, duration_mean: 240, duration_std: 30}
  - name: Billing
    reasons:
      - name: Invoice
        prob: 1.0
        sub_reasons:
          - {name: Late Fee, prob: 1, duration_mean: 240, duration_std: 30}
`,
			expectedError: customerrors.ErrInvalidProgramTable,
			expectedLine:  8,
		},
		"InvalidInput_MisspelledSubReasonField": {
			input: `
programs:
  - name: Billing
    reasons:
      - name: Invoice
        prob: 1.0
        sub_reasons:
          - {name: Late Fee, prob: 1, duration_mean: 240, duration_sd: 30}
`,
			expectedError: customerrors.ErrInvalidProgramTable,
			expectedLine:  2,
		},
		"InvalidInput_UnknownProgramField": {
			input: `
programs:
  - name: Billing
    reasons:
      - name: Invoice
        prob: 1.0
        sub_reasons:
          - {name: Late Fee, prob: 1, duration_mean: 240, duration_std: 30}
  - name: Sales
    owner: nobody
    reasons:
      - name: Upgrade
        prob: 1.0
        sub_reasons:
          - {name: Plan, prob: 1, duration_mean: 180, duration_std: 20}
`,
			expectedError: customerrors.ErrInvalidProgramTable,
			expectedLine:  8,
		},
		"InvalidInput_BadNumber": {
			input: `
programs:
  - name: Billing
    reasons:
      - name: Invoice
        prob: lots
        sub_reasons:
          - {name: Late Fee, prob: 1, duration_mean: 240, duration_std: 30}
`,
			expectedError: customerrors.ErrInvalidProgramTable,
			expectedLine:  2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := strings.NewReader(strings.TrimSpace(tt.input))
			got, err := parser.ParsePrograms(r)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError), "ParsePrograms() error = %v, expectedError %v", err, tt.expectedError)
				if tt.expectedLine > 0 {
					var parseErr *customerrors.ParseError
					if assert.True(t, errors.As(err, &parseErr)) {
						assert.Equal(t, tt.expectedLine, parseErr.Line)
					}
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedData, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := map[string]struct {
		input         string
		expected      civil.Date
		expectedError error
	}{
		"Valid":          {input: "2025-01-31", expected: civil.Date{Year: 2025, Month: time.January, Day: 31}},
		"ValidPadded":    {input: " 2024-02-29 ", expected: civil.Date{Year: 2024, Month: time.February, Day: 29}},
		"InvalidDay":     {input: "2025-02-30", expectedError: customerrors.ErrInvalidDate},
		"InvalidLayout":  {input: "01/31/2025", expectedError: customerrors.ErrInvalidDate},
		"InvalidEmpty":   {input: "", expectedError: customerrors.ErrInvalidDate},
		"InvalidGarbage": {input: "yesterday", expectedError: customerrors.ErrInvalidDate},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parser.ParseDate(tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
