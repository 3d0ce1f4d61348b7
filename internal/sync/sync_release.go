//go:build !deadlock

// Package sync aliases the lock types used across autosort so they can be
// swapped for go-deadlock's instrumented versions with -tags deadlock.
package sync

import "sync"

type (
	Mutex     = sync.Mutex
	RWMutex   = sync.RWMutex
	Once      = sync.Once
	WaitGroup = sync.WaitGroup
)
