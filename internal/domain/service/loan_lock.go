package service

import "sync"

// LoanLocker serialises operations on a single loan. Payment allocation and
// arrears classification both read installment state across several rows
// before writing it back; interleaving two such sequences on one loan could
// double-spend a payment into an already-settled installment. Operations on
// different loans proceed in parallel.
type LoanLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLoanLocker creates an empty locker.
func NewLoanLocker() *LoanLocker {
	return &LoanLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for the given loan and returns the release
// function. Per-loan mutexes are created lazily and kept for the process
// lifetime; the loan book is bounded, so the map is not reaped.
func (l *LoanLocker) Lock(loanID string) func() {
	l.mu.Lock()
	m, ok := l.locks[loanID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[loanID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
