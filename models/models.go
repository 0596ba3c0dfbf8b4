package models

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// TimestampLayout is the text layout used for timestamps in csv output.
// Timestamps are wall-clock values without a zone and are always held in UTC.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// SentinelEndDate marks an assignment segment that is still in effect.
var SentinelEndDate = civil.Date{Year: 9999, Month: time.December, Day: 31}

// Agent is a call center agent. IDs are dense and 1-based.
type Agent struct {
	AgentID   int    `json:"agent_id"`
	AgentName string `json:"agent_name"`
}

// Manager supervises agents through AssignmentSegments.
type Manager struct {
	ManagerID   int    `json:"manager_id"`
	ManagerName string `json:"manager_name"`
}

// Customer is a caller. The program is fixed for the customer's lifetime.
type Customer struct {
	CustomerID int        `json:"customer_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	BirthDate  civil.Date `json:"birth_date"`
	State      string     `json:"state"`
	ZipCode    string     `json:"zip_code"`
	Program    string     `json:"program"`
}

// AssignmentSegment places an agent under a manager for an inclusive date range.
type AssignmentSegment struct {
	AgentID        int        `json:"agent_id"`
	ManagerID      int        `json:"manager_id"`
	EffectiveStart civil.Date `json:"effective_start"`
	EffectiveEnd   civil.Date `json:"effective_end"`
}

// Open reports whether the segment is the agent's current assignment.
func (s AssignmentSegment) Open() bool {
	return s.EffectiveEnd == SentinelEndDate
}

// CallEvent is one telephony record.
type CallEvent struct {
	CallID              int64     `json:"call_id" parquet:"call_id"`
	AgentID             int       `json:"agent_id" parquet:"agent_id"`
	CustomerID          int       `json:"customer_id" parquet:"customer_id"`
	QueueHoldTime       int       `json:"queue_hold_time" parquet:"queue_hold_time"`
	StartTS             time.Time `json:"start_ts" parquet:"start_ts,timestamp(microsecond)"`
	EndTS               time.Time `json:"end_ts" parquet:"end_ts,timestamp(microsecond)"`
	DurationS           int       `json:"duration_s" parquet:"duration_s"`
	HoldTimeDuringCallS int       `json:"hold_time_during_call_s" parquet:"hold_time_during_call_s"`
	TransferFlag        bool      `json:"transfer_flag" parquet:"transfer_flag"`
}

// CRMEvent is the case record linked 1:1 to a CallEvent.
type CRMEvent struct {
	CRMID             int64     `json:"crm_id" parquet:"crm_id"`
	AgentID           int       `json:"agent_id" parquet:"agent_id"`
	CallID            int64     `json:"call_id" parquet:"call_id"`
	CustomerID        int       `json:"customer_id" parquet:"customer_id"`
	ReasonCode        string    `json:"reason_code" parquet:"reason_code"`
	SubReasonCode     string    `json:"sub_reason_code" parquet:"sub_reason_code"`
	PreviousIssueFlag bool      `json:"previous_issue_flag" parquet:"previous_issue_flag"`
	CreatedTS         time.Time `json:"created_ts" parquet:"created_ts,timestamp(microsecond)"`
}

// SurveyEvent is a post-call survey response.
type SurveyEvent struct {
	SurveyID   int64     `json:"survey_id" parquet:"survey_id"`
	CallID     int64     `json:"call_id" parquet:"call_id"`
	AgentID    int       `json:"agent_id" parquet:"agent_id"`
	CustomerID int       `json:"customer_id" parquet:"customer_id"`
	SentTS     time.Time `json:"sent_ts" parquet:"sent_ts,timestamp(microsecond)"`
	ResponseTS time.Time `json:"response_ts" parquet:"response_ts,timestamp(microsecond)"`
	CSAT       int       `json:"csat" parquet:"csat"`
	NPS        int       `json:"nps" parquet:"nps"`
}

// PendingCallback is a promised follow-up call owed by AgentID on Day.
type PendingCallback struct {
	Day        civil.Date
	CustomerID int
	Reason     string
	SubReason  string
	AgentID    int
}

func (Agent) CSVHeader() []string { return []string{"agent_id", "agent_name"} }

func (a Agent) CSVRecord() []string {
	return []string{strconv.Itoa(a.AgentID), a.AgentName}
}

func (Manager) CSVHeader() []string { return []string{"manager_id", "manager_name"} }

func (m Manager) CSVRecord() []string {
	return []string{strconv.Itoa(m.ManagerID), m.ManagerName}
}

func (Customer) CSVHeader() []string {
	return []string{"customer_id", "first_name", "last_name", "birth_date", "state", "zip_code", "program"}
}

func (c Customer) CSVRecord() []string {
	return []string{
		strconv.Itoa(c.CustomerID), c.FirstName, c.LastName, c.BirthDate.String(),
		c.State, c.ZipCode, c.Program,
	}
}

func (AssignmentSegment) CSVHeader() []string {
	return []string{"agent_id", "manager_id", "effective_start", "effective_end"}
}

func (s AssignmentSegment) CSVRecord() []string {
	return []string{
		strconv.Itoa(s.AgentID), strconv.Itoa(s.ManagerID),
		s.EffectiveStart.String(), s.EffectiveEnd.String(),
	}
}

func (CallEvent) CSVHeader() []string {
	return []string{
		"call_id", "agent_id", "customer_id", "queue_hold_time", "start_ts", "end_ts",
		"duration_s", "hold_time_during_call_s", "transfer_flag",
	}
}

func (c CallEvent) CSVRecord() []string {
	return []string{
		strconv.FormatInt(c.CallID, 10),
		strconv.Itoa(c.AgentID),
		strconv.Itoa(c.CustomerID),
		strconv.Itoa(c.QueueHoldTime),
		c.StartTS.Format(TimestampLayout),
		c.EndTS.Format(TimestampLayout),
		strconv.Itoa(c.DurationS),
		strconv.Itoa(c.HoldTimeDuringCallS),
		strconv.FormatBool(c.TransferFlag),
	}
}

func (CRMEvent) CSVHeader() []string {
	return []string{
		"crm_id", "agent_id", "call_id", "customer_id", "reason_code", "sub_reason_code",
		"previous_issue_flag", "created_ts",
	}
}

func (c CRMEvent) CSVRecord() []string {
	return []string{
		strconv.FormatInt(c.CRMID, 10),
		strconv.Itoa(c.AgentID),
		strconv.FormatInt(c.CallID, 10),
		strconv.Itoa(c.CustomerID),
		c.ReasonCode,
		c.SubReasonCode,
		strconv.FormatBool(c.PreviousIssueFlag),
		c.CreatedTS.Format(TimestampLayout),
	}
}

func (SurveyEvent) CSVHeader() []string {
	return []string{"survey_id", "call_id", "agent_id", "customer_id", "sent_ts", "response_ts", "csat", "nps"}
}

func (s SurveyEvent) CSVRecord() []string {
	return []string{
		strconv.FormatInt(s.SurveyID, 10),
		strconv.FormatInt(s.CallID, 10),
		strconv.Itoa(s.AgentID),
		strconv.Itoa(s.CustomerID),
		s.SentTS.Format(TimestampLayout),
		s.ResponseTS.Format(TimestampLayout),
		strconv.Itoa(s.CSAT),
		strconv.Itoa(s.NPS),
	}
}

// RunSummary describes a completed simulation run.
type RunSummary struct {
	RunID              string
	Start              civil.Date
	End                civil.Date
	Days               int
	Agents             int
	Managers           int
	Customers          int
	AssignmentSegments int
	Calls              int64
	CRM                int64
	Surveys            int64
	CallbacksScheduled int64
	CallbacksCompleted int64
	CallbacksDropped   int64
	Elapsed            time.Duration
}
