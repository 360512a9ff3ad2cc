package models

import (
	"fmt"
	"sort"
)

// DropReason classifies why a record was excluded from the feature matrix.
type DropReason string

// Drop reasons.
const (
	ReasonInvalidIdentifier   DropReason = "invalid_identifier"
	ReasonNonNumericSerial    DropReason = "non_numeric_serial"
	ReasonUnknownCategoryCode DropReason = "unknown_category_code"
	ReasonUnseenCategory      DropReason = "unseen_category"
)

// DropError pairs a DropReason with the underlying cause.
type DropError struct {
	Reason DropReason
	Err    error
}

func (e *DropError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *DropError) Unwrap() error {
	return e.Err
}

// Drop wraps err as a DropError with the given reason.
func Drop(reason DropReason, err error) *DropError {
	return &DropError{Reason: reason, Err: err}
}

// Result is the outcome of processing one record: either Value or Err is set.
type Result[T any] struct {
	Value T
	Err   *DropError
}

// OK reports whether the record survived.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// DroppedRecord identifies a record excluded from the output and why.
type DroppedRecord struct {
	VIN    string     `json:"vin"`
	Price  int64      `json:"price"`
	Offset int        `json:"offset"`
	Reason DropReason `json:"reason"`
	Detail string     `json:"detail"`
}

// DropReport accounts for every record that entered a pipeline run.
type DropReport struct {
	RunID     string             `json:"runId"`
	Extracted int                `json:"extracted"`
	Kept      int                `json:"kept"`
	Dropped   []DroppedRecord    `json:"dropped"`
	Counts    map[DropReason]int `json:"counts"`
}

// NewDropReport creates an empty report for a run.
func NewDropReport(runID string, extracted int) *DropReport {
	return &DropReport{
		RunID:     runID,
		Extracted: extracted,
		Dropped:   []DroppedRecord{},
		Counts:    make(map[DropReason]int),
	}
}

// Add records a dropped record.
func (r *DropReport) Add(raw RawRecord, err *DropError) {
	r.Dropped = append(r.Dropped, DroppedRecord{
		VIN:    raw.VIN,
		Price:  raw.Price,
		Offset: raw.Offset,
		Reason: err.Reason,
		Detail: err.Err.Error(),
	})
	r.Counts[err.Reason]++
}

// Reasons returns the reasons present in the report in a stable order.
func (r *DropReport) Reasons() []DropReason {
	reasons := make([]DropReason, 0, len(r.Counts))
	for reason := range r.Counts {
		reasons = append(reasons, reason)
	}

	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	return reasons
}
