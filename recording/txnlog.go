package recording

import (
	"github.com/sarchlab/vtb/verify"
	"github.com/sarchlab/vtb/xact"
)

// An IssuedEntry is one recorded stimulus transaction.
type IssuedEntry struct {
	ID      uint64
	Payload uint64
	Tick    int64
}

// An ObservedEntry is one recorded response transaction.
type ObservedEntry struct {
	ID      uint64
	Payload uint64
	Tick    int64
}

// A ResultEntry is the recorded run result.
type ResultEntry struct {
	State           string
	Passed          bool
	Seed            int64
	Policy          string
	Issued          uint64
	Observed        uint64
	Checked         uint64
	Passes          uint64
	Mismatches      uint64
	Spurious        uint64
	CoveragePercent float64
	EndTick         int64
}

// A FailureEntry is one recorded check failure.
type FailureEntry struct {
	Kind       string
	StimulusID uint64
	ObservedID uint64
	Expected   uint64
	Actual     uint64
	Tick       int64
}

// A TransactionLog records every transaction and the final result of a run.
// Attach it to an environment as its listener.
type TransactionLog struct {
	rec Recorder
}

// NewTransactionLog creates a TransactionLog and its tables on the given
// recorder.
func NewTransactionLog(rec Recorder) *TransactionLog {
	rec.CreateTable("issued_transactions", IssuedEntry{})
	rec.CreateTable("observed_transactions", ObservedEntry{})
	rec.CreateTable("run_results", ResultEntry{})
	rec.CreateTable("failures", FailureEntry{})

	return &TransactionLog{rec: rec}
}

// TransactionIssued records one stimulus transaction.
func (l *TransactionLog) TransactionIssued(txn xact.Transaction) {
	l.rec.InsertData("issued_transactions", IssuedEntry{
		ID:      txn.ID,
		Payload: txn.Payload,
		Tick:    int64(txn.Timestamp),
	})
}

// TransactionObserved records one response transaction.
func (l *TransactionLog) TransactionObserved(txn xact.Transaction) {
	l.rec.InsertData("observed_transactions", ObservedEntry{
		ID:      txn.ID,
		Payload: txn.Payload,
		Tick:    int64(txn.Timestamp),
	})
}

// RunCompleted records the run result and the failure log, then flushes.
func (l *TransactionLog) RunCompleted(res verify.RunResult) {
	l.rec.InsertData("run_results", ResultEntry{
		State:           res.State.String(),
		Passed:          res.Passed,
		Seed:            res.Seed,
		Policy:          string(res.Policy),
		Issued:          res.Issued,
		Observed:        res.Observed,
		Checked:         res.Checked,
		Passes:          res.Passes,
		Mismatches:      res.Mismatches,
		Spurious:        res.Spurious,
		CoveragePercent: res.Coverage.OverallPercent,
		EndTick:         int64(res.EndTick),
	})

	for _, f := range res.Failures {
		l.rec.InsertData("failures", FailureEntry{
			Kind:       f.Kind.String(),
			StimulusID: f.StimulusID,
			ObservedID: f.ObservedID,
			Expected:   f.Expected,
			Actual:     f.Actual,
			Tick:       int64(f.Tick),
		})
	}

	l.rec.Flush()
}
