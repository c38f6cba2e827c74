package sim

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// FailedDetail is the reported view of one FailedRecord.
type FailedDetail struct {
	ClientID     int    `json:"client_id"`
	ServerID     int    `json:"server_id"`
	NumQubits    int    `json:"num_qubits"`
	CircuitDepth int    `json:"circuit_depth"` // 0 = unknown
	Route        string `json:"route"`
	Reason       string `json:"reason"`
}

// ScheduledDetail is the reported view of one request still in the schedule table.
type ScheduledDetail struct {
	Timeslot     int64 `json:"timeslot"`
	ClientID     int   `json:"client_id"`
	ServerID     int   `json:"server_id"`
	NumQubits    int   `json:"num_qubits"`
	CircuitDepth int   `json:"circuit_depth"`
}

// Report aggregates the outcome of a scheduling run.
type Report struct {
	RunID            string            `json:"run_id"`
	Success          int               `json:"success"`
	Failed           int               `json:"failed"`
	Scheduled        int               `json:"scheduled"`
	Pending          int               `json:"pending"`
	Executed         []ExecutedRecord  `json:"-"`
	ScheduledDetails []ScheduledDetail `json:"scheduled_details"`
	FailedDetails    []FailedDetail    `json:"failed_details"`
}

// Report builds a snapshot of executed, failed and still-scheduled requests.
// It never mutates scheduler state and may be called at any time.
func (s *Scheduler) Report() Report {
	r := Report{
		RunID:            s.RunID,
		Success:          len(s.Executed),
		Failed:           len(s.Failed),
		Pending:          s.Pending.Len(),
		Executed:         append([]ExecutedRecord(nil), s.Executed...),
		ScheduledDetails: make([]ScheduledDetail, 0),
		FailedDetails:    make([]FailedDetail, 0, len(s.Failed)),
	}
	for _, ts := range s.ScheduledTimeslots() {
		for _, req := range s.Scheduled[ts] {
			r.ScheduledDetails = append(r.ScheduledDetails, ScheduledDetail{
				Timeslot:     ts,
				ClientID:     req.ClientID,
				ServerID:     req.ServerID,
				NumQubits:    req.NumQubits,
				CircuitDepth: req.CircuitDepth,
			})
		}
	}
	r.Scheduled = len(r.ScheduledDetails)
	for _, f := range s.Failed {
		r.FailedDetails = append(r.FailedDetails, FailedDetail{
			ClientID:     f.Request.ClientID,
			ServerID:     f.Request.ServerID,
			NumQubits:    f.Request.NumQubits,
			CircuitDepth: f.Request.CircuitDepth,
			Route:        f.Route,
			Reason:       f.Reason,
		})
	}
	return r
}

func depthString(depth int) string {
	if depth <= 0 {
		return "N/A"
	}
	return strconv.Itoa(depth)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

// Print renders the report as tables.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Request Report (run %s) ===\n", r.RunID)

	if len(r.Executed) > 0 {
		fmt.Fprintln(w, "\nExecuted requests:")
		table := newTable(w, []string{"CLIENT", "SERVER", "QUBITS", "DEPTH", "TIMESLOT"})
		for _, e := range r.Executed {
			table.Append([]string{
				strconv.Itoa(e.Request.ClientID),
				strconv.Itoa(e.Request.ServerID),
				strconv.Itoa(e.Request.NumQubits),
				depthString(e.Request.CircuitDepth),
				strconv.FormatInt(e.Timeslot, 10),
			})
		}
		table.Render()
	}

	if len(r.ScheduledDetails) > 0 {
		fmt.Fprintln(w, "\nScheduled requests:")
		table := newTable(w, []string{"TIMESLOT", "CLIENT", "SERVER", "QUBITS", "DEPTH"})
		for _, d := range r.ScheduledDetails {
			table.Append([]string{
				strconv.FormatInt(d.Timeslot, 10),
				strconv.Itoa(d.ClientID),
				strconv.Itoa(d.ServerID),
				strconv.Itoa(d.NumQubits),
				depthString(d.CircuitDepth),
			})
		}
		table.Render()
	}

	if len(r.FailedDetails) > 0 {
		fmt.Fprintln(w, "\nFailed requests:")
		table := newTable(w, []string{"CLIENT", "SERVER", "QUBITS", "DEPTH", "ROUTE", "REASON"})
		for _, d := range r.FailedDetails {
			table.Append([]string{
				strconv.Itoa(d.ClientID),
				strconv.Itoa(d.ServerID),
				strconv.Itoa(d.NumQubits),
				depthString(d.CircuitDepth),
				d.Route,
				d.Reason,
			})
		}
		table.Render()
	}

	fmt.Fprintf(w, "\nSuccess: %d  Failed: %d  Scheduled: %d  Pending: %d\n", r.Success, r.Failed, r.Scheduled, r.Pending)
}
