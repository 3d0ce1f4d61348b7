//go:build deadlock

// Package sync aliases the lock types used across autosort so they can be
// swapped for go-deadlock's instrumented versions with -tags deadlock.
package sync

import (
	"os"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
)

type (
	Mutex     = deadlock.Mutex
	RWMutex   = deadlock.RWMutex
	Once      = sync.Once
	WaitGroup = sync.WaitGroup
)

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second

	if os.Getenv("AUTOSORT_NO_DEADLOCK_DETECT") != "" {
		deadlock.Opts.Disable = true
		return
	}

	// Reports go to stderr with every goroutine's stack.
	deadlock.Opts.PrintAllCurrentGoroutines = true
	deadlock.Opts.LogBuf = nil

	println("autosort: go-deadlock lock-order detection enabled")
}
