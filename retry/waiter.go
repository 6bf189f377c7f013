// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Waiter specifies how long to wait before retrying a failed attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	// Wait returns the time to wait before the retry that follows the
	// failed attempt numbered attempt (zero-based).
	Wait(attempt int) time.Duration
}

// DefaultWaiter is the waiter used by DefaultPolicy. It waits one
// second after the first failed attempt, and doubles the wait after
// each subsequent one, without jitter.
var DefaultWaiter = NewExpWaiter(1*time.Second, maxWait, nil)

const maxWait = time.Duration(1<<63 - 1)

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ int) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional jitter.
//
// The formula implemented is:
//
//	ceil := min(base * 2^attempt, max)
//
// Without jitter the wait time is ceil. With jitter the wait time is a
// random duration in the half-open interval [0, ceil).
//
// Parameters base and max must be positive values, and max must be at
// least equal to base.
//
// The jitter parameter may be nil, or a time.Time, int, int64,
// rand.Source, or *rand.Rand used to seed the random number generator.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("httpsvc/retry: base must be positive")
	}
	if max < base {
		panic("httpsvc/retry: max must be at least base")
	}
	r := jitterToRand(jitter)
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: r,
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(attempt int) time.Duration {
	ceil := int64(w.max)
	if attempt >= 0 && attempt < 63 {
		exp := int64(1) << attempt
		c := int64(w.base) * exp
		if c/exp == int64(w.base) && c <= int64(w.max) {
			ceil = c
		}
	}

	duration := ceil
	if ceil > 0 {
		w.lock.Lock()
		defer w.lock.Unlock()
		if w.rand != nil {
			duration = w.rand.Int63n(ceil)
		}
	}

	return time.Duration(duration)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("httpsvc/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("httpsvc/retry: invalid jitter type")
	}
	return rand.New(s)
}
