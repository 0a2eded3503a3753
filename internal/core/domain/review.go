package domain

import "time"

// BatchAction names a batch-wide disposition.
type BatchAction string

const (
	ActionApproveAll BatchAction = "approve-all"
	ActionRejectAll  BatchAction = "reject-all"
)

// ItemOutcome is the result of one per-item call inside a batch run.
type ItemOutcome struct {
	PendingID string
	Err       error
}

// Succeeded reports whether the item was processed.
func (o ItemOutcome) Succeeded() bool {
	return o.Err == nil
}

// ItemFailure describes an item that a batch run could not process.
type ItemFailure struct {
	PendingID string `json:"id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

// BatchResult reports per-item outcomes of approve-all/reject-all in processing order.
// Skipped holds items another reviewer already handled; Remaining counts items still pending afterwards.
type BatchResult struct {
	BatchID   string        `json:"batchId"`
	Action    BatchAction   `json:"action"`
	Succeeded []string      `json:"succeeded"`
	Failed    []ItemFailure `json:"failed"`
	Skipped   []ItemFailure `json:"skipped"`
	Remaining int           `json:"remaining"`
}

// Complete is true when nothing in the batch is left pending.
func (r BatchResult) Complete() bool {
	return r.Remaining == 0
}

// ReviewAction is the kind of reviewer action recorded in the audit trail.
type ReviewAction string

const (
	ReviewEdit    ReviewAction = "EDIT"
	ReviewApprove ReviewAction = "APPROVE"
	ReviewReject  ReviewAction = "REJECT"
)

// ReviewEvent is an audit trail row appended after every successful edit or transition.
type ReviewEvent struct {
	EventID   string       `json:"eventID"`
	PendingID string       `json:"pendingID"`
	BatchID   string       `json:"batchID"`
	Action    ReviewAction `json:"action"`
	ActorID   string       `json:"actorID"`
	Note      string       `json:"note"`
	At        time.Time    `json:"at"`
}
