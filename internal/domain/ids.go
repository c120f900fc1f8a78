package domain

import (
	"fmt"
	"sync"
	"time"
)

// Entity IDs keep the original wire format: a prefix plus the creation time
// in unix milliseconds ("acc-1696500000000"). Two creations landing in the
// same millisecond would collide, so a process-wide guard bumps the stamp
// until it is strictly increasing.
var (
	idMu     sync.Mutex
	lastMill int64
)

func nextStamp(now time.Time) int64 {
	idMu.Lock()
	defer idMu.Unlock()

	ms := now.UnixMilli()
	if ms <= lastMill {
		ms = lastMill + 1
	}
	lastMill = ms
	return ms
}

// NewAccountID returns a session-unique account identifier.
func NewAccountID(now time.Time) string {
	return fmt.Sprintf("acc-%d", nextStamp(now))
}

// NewTransactionID returns a session-unique transaction identifier.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("tx-%d", nextStamp(now))
}
