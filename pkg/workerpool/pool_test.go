// Copyright Apotell Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGroupRunsEveryJobAndWaitsForAll(t *testing.T) {
	p := New(4, 8, nil)
	defer p.Close()

	var mu sync.Mutex
	sum := 0

	jobs := make([]Job, 0, 10)
	for i := 1; i <= 10; i++ {
		i := i
		jobs = append(jobs, func(ctx *PoolContext) {
			mu.Lock()
			sum += i
			mu.Unlock()
		})
	}

	p.Group(jobs)

	if sum != 55 {
		t.Fatalf("expected sum of 1..10 == 55, got %d", sum)
	}
}

func TestPoolUsesBoundedWorkerCount(t *testing.T) {
	p := New(2, 16, nil)
	defer p.Close()

	var active int32
	var maxActive int32
	var mu sync.Mutex

	jobs := make([]Job, 0, 20)
	for i := 0; i < 20; i++ {
		jobs = append(jobs, func(ctx *PoolContext) {
			n := atomic.AddInt32(&active, 1)

			mu.Lock()
			if n > maxActive {
				maxActive = n
			}
			mu.Unlock()

			atomic.AddInt32(&active, -1)
		})
	}

	p.Group(jobs)

	if maxActive > 2 {
		t.Fatalf("expected at most 2 concurrently active jobs with a size-2 pool, observed %d", maxActive)
	}
}

func TestPoolContextReportsCancellation(t *testing.T) {
	var cancelled int32

	p := New(1, 1, func() bool { return atomic.LoadInt32(&cancelled) != 0 })
	defer p.Close()

	seenBefore := make(chan bool, 1)
	seenAfter := make(chan bool, 1)

	p.Submit(func(ctx *PoolContext) {
		seenBefore <- ctx.Cancelled()
	})

	if <-seenBefore {
		t.Fatalf("expected Cancelled() to be false before cancellation is requested")
	}

	atomic.StoreInt32(&cancelled, 1)

	p.Submit(func(ctx *PoolContext) {
		seenAfter <- ctx.Cancelled()
	})

	if !<-seenAfter {
		t.Fatalf("expected Cancelled() to be true once cancellation is requested")
	}
}

func TestCloseWaitsForQueuedJobsToFinish(t *testing.T) {
	p := New(1, 4, nil)

	var ran int32

	for i := 0; i < 4; i++ {
		p.Submit(func(ctx *PoolContext) {
			atomic.AddInt32(&ran, 1)
		})
	}

	p.Close()

	if ran != 4 {
		t.Fatalf("expected all 4 queued jobs to run before Close returns, got %d", ran)
	}
}
