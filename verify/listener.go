package verify

import (
	"github.com/sarchlab/vtb/xact"
)

// A TransactionListener receives a callback for every issued and observed
// transaction and once at the end of the run. Recorders and progress views
// implement it. Callbacks run on the engine goroutine and must not block.
type TransactionListener interface {
	TransactionIssued(txn xact.Transaction)
	TransactionObserved(txn xact.Transaction)
	RunCompleted(result RunResult)
}
