package writer_test

import (
	"callcenter-sim/metrics"
	"callcenter-sim/models"
	"callcenter-sim/writer"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/parquet-go/parquet-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = civil.Date{Year: 2025, Month: time.January, Day: 2}

func surveys(ids ...int64) []models.SurveyEvent {
	out := make([]models.SurveyEvent, len(ids))
	for i, id := range ids {
		out[i] = models.SurveyEvent{
			SurveyID: id, CallID: id, AgentID: 1, CustomerID: 1,
			SentTS:     time.Date(2025, 1, 1, 9, 0, 5, 0, time.UTC),
			ResponseTS: time.Date(2025, 1, 2, 9, 0, 40, 0, time.UTC),
			CSAT:       4, NPS: 9,
		}
	}
	return out
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWrite_AppendsParts(t *testing.T) {
	root := t.TempDir()
	w := writer.NewPartitioned(root, []string{"parquet"})

	require.NoError(t, w.WriteSurveys(day, surveys(1, 2)))
	require.NoError(t, w.WriteSurveys(day, surveys(3)))
	require.NoError(t, w.WriteSurveys(day, surveys(4)))

	dir := filepath.Join(root, "surveys", "day=2025-01-02")
	assert.Equal(t, dir, w.PartitionDir(writer.TableSurveys, day))
	assert.Equal(t, []string{
		"part-0000-surveys.parquet",
		"part-0001-surveys.parquet",
		"part-0002-surveys.parquet",
	}, listFiles(t, dir))

	rows, err := parquet.ReadFile[models.SurveyEvent](filepath.Join(dir, "part-0000-surveys.parquet"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWrite_EmptyBatchIsNoop(t *testing.T) {
	root := t.TempDir()
	w := writer.NewPartitioned(root, []string{"parquet", "csv"})

	require.NoError(t, w.WriteCalls(day, nil))
	_, err := os.Stat(filepath.Join(root, "calls"))
	assert.True(t, os.IsNotExist(err), "empty batch must not create the partition")

	require.NoError(t, w.WriteCalls(day, []models.CallEvent{{CallID: 1}}))
	require.NoError(t, w.WriteCalls(day, []models.CallEvent{}))
	require.NoError(t, w.WriteCalls(day, []models.CallEvent{{CallID: 2}}))

	assert.Equal(t, []string{
		"part-0000-calls.csv",
		"part-0000-calls.parquet",
		"part-0001-calls.csv",
		"part-0001-calls.parquet",
	}, listFiles(t, filepath.Join(root, "calls", "day=2025-01-02")))
}

func TestNextPart(t *testing.T) {
	tests := map[string]struct {
		existing []string
		expected int
	}{
		"MissingDir":     {existing: nil, expected: 0},
		"Sequential":     {existing: []string{"part-0000-crm.parquet", "part-0001-crm.parquet"}, expected: 2},
		"Gap":            {existing: []string{"part-0000-crm.parquet", "part-0007-crm.parquet"}, expected: 8},
		"OtherFormat":    {existing: []string{"part-0004-crm.csv"}, expected: 0},
		"OtherTable":     {existing: []string{"part-0004-calls.parquet"}, expected: 0},
		"ForeignFiles":   {existing: []string{"README.md", "part-x-crm.parquet", "part--1-crm.parquet"}, expected: 0},
		"WideNumbers":    {existing: []string{"part-12345-crm.parquet"}, expected: 12346},
		"MixedWithValid": {existing: []string{"notes.txt", "part-0002-crm.parquet"}, expected: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "crm", "day=2025-01-02")
			if tt.existing != nil {
				require.NoError(t, os.MkdirAll(dir, 0o755))
				for _, f := range tt.existing {
					require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
				}
			}

			next, err := writer.NextPart(dir, "crm", "parquet")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, next)
		})
	}
}

func TestWriteSeed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "seeds")
	agents := []models.Agent{{AgentID: 1, AgentName: "Ada Lovelace"}, {AgentID: 2, AgentName: "Alan Turing"}}

	require.NoError(t, writer.WriteSeed(dir, writer.TableAgents, agents))
	// Rewriting replaces the file rather than failing.
	require.NoError(t, writer.WriteSeed(dir, writer.TableAgents, agents[:1]))

	data, err := os.ReadFile(filepath.Join(dir, "agents.csv"))
	require.NoError(t, err)
	assert.Equal(t, "agent_id,agent_name\n1,Ada Lovelace\n", string(data))
}

func TestWriteSeed_Assignments(t *testing.T) {
	dir := t.TempDir()
	segments := []models.AssignmentSegment{
		{AgentID: 3, ManagerID: 1, EffectiveStart: civil.Date{Year: 2025, Month: 1, Day: 1}, EffectiveEnd: civil.Date{Year: 2025, Month: 2, Day: 9}},
		{AgentID: 3, ManagerID: 2, EffectiveStart: civil.Date{Year: 2025, Month: 2, Day: 10}, EffectiveEnd: models.SentinelEndDate},
	}

	require.NoError(t, writer.WriteSeed(dir, writer.TableAgentAssignments, segments))

	data, err := os.ReadFile(filepath.Join(dir, "agent_assignments.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"agent_id,manager_id,effective_start,effective_end\n"+
			"3,1,2025-01-01,2025-02-09\n"+
			"3,2,2025-02-10,9999-12-31\n",
		string(data))
}

func TestWrite_Metrics(t *testing.T) {
	w := writer.NewPartitioned(t.TempDir(), []string{"csv", "json"})
	files := metrics.FilesWrittenTotal.WithLabelValues(writer.TableCRM, "json")
	rows := metrics.RowsWrittenTotal.WithLabelValues(writer.TableCRM)
	filesBefore, rowsBefore := testutil.ToFloat64(files), testutil.ToFloat64(rows)

	require.NoError(t, w.WriteCRM(day, []models.CRMEvent{{CRMID: 1}, {CRMID: 2}, {CRMID: 3}}))
	require.NoError(t, w.WriteCRM(day, nil))

	assert.Equal(t, filesBefore+1, testutil.ToFloat64(files))
	assert.Equal(t, rowsBefore+3, testutil.ToFloat64(rows), "rows count once per batch, not per format")
}
