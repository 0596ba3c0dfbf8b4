package formatter_test

import (
	"bytes"
	customerrors "callcenter-sim/errors"
	"callcenter-sim/formatter"
	"callcenter-sim/models"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleCalls = []models.CallEvent{
	{
		CallID: 1, AgentID: 2, CustomerID: 3, QueueHoldTime: 45,
		StartTS:   time.Date(2025, 1, 1, 8, 10, 0, 500000000, time.UTC),
		EndTS:     time.Date(2025, 1, 1, 8, 15, 0, 500000000, time.UTC),
		DurationS: 300, HoldTimeDuringCallS: 12, TransferFlag: true,
	},
	{
		CallID: 2, AgentID: 2, CustomerID: 4, QueueHoldTime: 0,
		StartTS:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTS:     time.Date(2025, 1, 1, 9, 3, 0, 0, time.UTC),
		DurationS: 180,
	},
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		summary  models.RunSummary
		contains []string
		excludes []string
	}{
		"CleanRun": {
			summary: models.RunSummary{
				RunID: "abc", Start: civil.Date{Year: 2025, Month: 1, Day: 1}, End: civil.Date{Year: 2025, Month: 1, Day: 3},
				Days: 3, Agents: 5, Managers: 2, Customers: 10, AssignmentSegments: 9,
				Calls: 100, CRM: 100, Surveys: 30, CallbacksScheduled: 4, CallbacksCompleted: 4,
				Elapsed: 2 * time.Second,
			},
			contains: []string{
				"run abc : 2025-01-01..2025-01-03 (3 days)",
				"agents=5, managers=2, customers=10, assignment_segments=9",
				"calls=100, crm=100, surveys=30",
				"scheduled=4, completed=4, dropped=0",
				"COMPLETE: simulation took 2s",
			},
			excludes: []string{"cut off"},
		},
		"DroppedCallbacks": {
			summary: models.RunSummary{CallbacksScheduled: 5, CallbacksCompleted: 3, CallbacksDropped: 2},
			contains: []string{
				"scheduled=5, completed=3, dropped=2",
				"⚠️  2 callbacks were cut off by the end of the workday",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tt.summary)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	tests := map[string]struct {
		rows     []models.CallEvent
		expected []string
	}{
		"Empty": {
			rows: nil,
			expected: []string{
				"call_id,agent_id,customer_id,queue_hold_time,start_ts,end_ts,duration_s,hold_time_during_call_s,transfer_flag",
			},
		},
		"TwoCalls": {
			rows: sampleCalls,
			expected: []string{
				"call_id,agent_id,customer_id,queue_hold_time,start_ts,end_ts,duration_s,hold_time_during_call_s,transfer_flag",
				"1,2,3,45,2025-01-01 08:10:00.500000,2025-01-01 08:15:00.500000,300,12,true",
				"2,2,4,0,2025-01-01 09:00:00.000000,2025-01-01 09:03:00.000000,180,0,false",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, formatter.EncodeCSV(&buf, tt.rows))
			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestEncodeCSV_QuotesFields(t *testing.T) {
	var buf bytes.Buffer
	rows := []models.CRMEvent{{CRMID: 1, CallID: 1, ReasonCode: "Device Issue", SubReasonCode: "Phone, cracked"}}
	require.NoError(t, formatter.EncodeCSV(&buf, rows))
	assert.Contains(t, buf.String(), `"Phone, cracked"`)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatter.EncodeJSON(&buf, sampleCalls))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"call_id":1`)
	assert.Contains(t, lines[0], `"transfer_flag":true`)
	assert.Contains(t, lines[1], `"start_ts":"2025-01-01T09:00:00Z"`)
}

func TestEncodeParquet_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatter.EncodeParquet(&buf, sampleCalls))

	rows, err := parquet.Read[models.CallEvent](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].CallID)
	assert.True(t, rows[0].StartTS.Equal(sampleCalls[0].StartTS))
	assert.Equal(t, 180, rows[1].DurationS)
}

func TestEncode_Deterministic(t *testing.T) {
	for _, format := range []string{"parquet", "csv", "json"} {
		t.Run(format, func(t *testing.T) {
			var a, b bytes.Buffer
			require.NoError(t, formatter.Encode(&a, format, sampleCalls))
			require.NoError(t, formatter.Encode(&b, format, sampleCalls))
			assert.Equal(t, a.Bytes(), b.Bytes())
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := formatter.Encode(&buf, "xlsx", sampleCalls)
	assert.ErrorIs(t, err, customerrors.ErrUnknownFormat)
}
