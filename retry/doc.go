// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides flexible policies for retrying failed attempts
// of an API call, and how long to wait before retrying.
//
// A Policy is an interceptor: it adapts nothing, and on failure decides
// whether another attempt should be made and sleeps for the backoff
// delay before saying so. Install it in a Service's interceptor chain
// like any other interceptor.
//
// The usual way to build a Policy is from a Config:
//
//	policy := retry.New(retry.Config{
//		MaxRetryCount:         2,
//		RetryableStatusCodes:  []int{408, 429, 500, 502, 503, 504},
//		RetryOnTransportError: true,
//		BaseDelay:             time.Second,
//	})
//
// A Policy can also be assembled with NewPolicy from a decision-maker,
// Decider, and a wait time calculator, Waiter. Both Decider and Waiter
// have constructors for common use cases:
//
//	decider := retry.Times(3).And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, waiter)
//
// If the built-in functionality is insufficient, fully custom retry
// logic can be written as a custom Decider, Waiter, or interceptor.
package retry
