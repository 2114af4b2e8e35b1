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

// Package workerpool implements the fixed-size goroutine pool spec.md
// section 5 calls for: "preprocessing (C2), parsing (C3), and component
// compilation (C6) are per-file / per-component and embarrassingly
// parallel; the driver schedules them as tasks on a fixed-size worker
// pool." Grounded on the teacher's own dispatch-a-goroutine-per-job,
// collect-the-results-over-a-channel convention
// (pkg/ir/builder/parallel.go's ParallelTraceExpansion/
// ParallelTraceValidation), generalized from an ad-hoc per-batch
// goroutine burst into a persistent, bounded pool so scheduling a large
// file set does not spawn one goroutine per file.
package workerpool

import (
	"runtime"
	"sync"
)

// Job is one unit of work submitted to a Pool.
type Job func(ctx *PoolContext)

// PoolContext is passed to a running Job so it can check for cooperative
// cancellation at a natural checkpoint, per spec.md section 5: "a fatal
// error in any worker sets a process-wide flag; other workers check it
// at phase boundaries and stop producing new tasks but let in-flight
// tasks complete".
type PoolContext struct {
	cancelled func() bool
}

// Cancelled reports whether the pool's owner has requested that no
// further work be started. A Job already running is expected to finish
// its current unit of work regardless -- this is a checkpoint to consult
// between units, not a preemption signal.
func (c *PoolContext) Cancelled() bool {
	return c.cancelled != nil && c.cancelled()
}

// Pool is a fixed-size goroutine pool draining a buffered job queue.
type Pool struct {
	jobs      chan Job
	wg        sync.WaitGroup
	cancelled func() bool
}

// New constructs a Pool with size worker goroutines (runtime.NumCPU() if
// size <= 0, the spec.md default) draining a job queue of queueCapacity
// slots. cancelled, when non-nil, backs every PoolContext.Cancelled()
// check a submitted Job makes; pass nil for a pool with no cancellation
// source of its own (e.g. a short-lived pool used only for one batch).
func New(size int, queueCapacity int, cancelled func() bool) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	if queueCapacity < 0 {
		queueCapacity = 0
	}

	p := &Pool{
		jobs:      make(chan Job, queueCapacity),
		cancelled: cancelled,
	}

	p.wg.Add(size)

	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	ctx := &PoolContext{cancelled: p.cancelled}

	for job := range p.jobs {
		job(ctx)
	}
}

// Submit enqueues job to run on the next free worker, blocking if the
// queue is full. A caller fanning out over a large file set should size
// queueCapacity to bound how much gets queued ahead of the workers rather
// than submitting unboundedly in a tight loop.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Group submits every job in jobs and blocks until all of them have run,
// mirroring the teacher's ParallelTraceExpansion "dispatch a batch, then
// collect every result before continuing" wave structure -- a caller gets
// that batch-then-barrier shape without managing its own WaitGroup.
func (p *Pool) Group(jobs []Job) {
	var wg sync.WaitGroup

	wg.Add(len(jobs))

	for _, job := range jobs {
		job := job

		p.Submit(func(ctx *PoolContext) {
			defer wg.Done()
			job(ctx)
		})
	}

	wg.Wait()
}

// Close stops accepting new jobs and waits for every queued and
// in-flight job to finish, matching spec.md's "let in-flight tasks
// complete" cancellation rule -- a job already queued when Close is
// called was accepted before any cancellation was observed, so it still
// runs to completion.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
