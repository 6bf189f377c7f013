// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"errors"
	"math"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/httpsvc/request"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	a := DefaultPolicy.Timeout(&request.Execution{})
	assert.Equal(t, 30*time.Second, a)
	b := DefaultPolicy.Timeout(&request.Execution{AttemptTimeouts: 3, Err: syscall.ETIMEDOUT, Reply: &request.Reply{Body: []byte("foo")}})
	assert.Equal(t, 30*time.Second, b)
	c := DefaultPolicy.Timeout(&request.Execution{Descriptor: &request.Descriptor{Timeout: 2 * time.Second}})
	assert.Equal(t, 2*time.Second, c)
}

func TestDescriptor(t *testing.T) {
	assert.PanicsWithValue(t, "httpsvc/timeout: nil fallback", func() { Descriptor(nil) })
	p := Descriptor(Adaptive(time.Second, time.Minute))
	assert.Equal(t, time.Second, p.Timeout(&request.Execution{Descriptor: &request.Descriptor{}}))
	assert.Equal(t, time.Minute, p.Timeout(&request.Execution{Descriptor: &request.Descriptor{}, AttemptTimeouts: 1, Err: syscall.ETIMEDOUT}))
	assert.Equal(t, time.Millisecond, p.Timeout(&request.Execution{Descriptor: &request.Descriptor{Timeout: time.Millisecond}}))
}

func TestInfinite(t *testing.T) {
	a := Infinite.Timeout(&request.Execution{})
	assert.Equal(t, time.Duration(math.MaxInt64), a)
	b := Infinite.Timeout(&request.Execution{AttemptTimeouts: 10, Err: syscall.ETIMEDOUT})
	assert.Equal(t, time.Duration(math.MaxInt64), b)
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Hour)
	a := p.Timeout(&request.Execution{})
	assert.Equal(t, 33*time.Hour, a)
	b := p.Timeout(&request.Execution{AttemptTimeouts: 1, Err: syscall.ETIMEDOUT, Attempt: 1})
	assert.Equal(t, 33*time.Hour, b)
	c := p.Timeout(&request.Execution{AttemptTimeouts: 2, Err: syscall.ETIMEDOUT, Attempt: 2})
	assert.Equal(t, 33*time.Hour, c)
}

func TestAdaptive(t *testing.T) {
	p := Adaptive(5*time.Millisecond, 10*time.Millisecond, 100*time.Millisecond)
	x := &request.Execution{}
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 0
	x.AttemptTimeouts = 1
	x.Err = syscall.ETIMEDOUT
	assert.Equal(t, 10*time.Millisecond, p.Timeout(x))
	x.Attempt = 1
	x.Err = errors.New("just a routine problem")
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 2
	x.AttemptTimeouts = 2
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Err = syscall.ETIMEDOUT
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 3
	x.AttemptTimeouts = 3
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 4
	x.AttemptTimeouts = 3
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 5
	x.Err = nil
	x.LastAttemptTimedOut = true
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.LastAttemptTimedOut = false
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
}
