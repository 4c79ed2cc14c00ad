// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package worker runs isolated tasks that exchange only encoded bytes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/specialistvlad/buildgrid/internal/ctxlog"
)

// Handler executes one task.
type Handler func(ctx context.Context, input []byte) ([]byte, error)

// Runtime starts tasks.
type Runtime interface {
	Spawn(ctx context.Context, input []byte) *Future
}

// Future is the pending result of a spawned task.
type Future struct {
	done   chan struct{}
	output []byte
	err    error
}

// Wait blocks until the task finishes.
func (f *Future) Wait() ([]byte, error) {
	<-f.done
	return f.output, f.err
}

func (f *Future) resolve(output []byte, err error) {
	f.output, f.err = output, err
	close(f.done)
}

// Local runs tasks as goroutines in this process, at most n at a time.
type Local struct {
	handler Handler
	sem     chan struct{}
	nextID  atomic.Int64
}

var _ Runtime = (*Local)(nil)

// NewLocal returns a runtime executing handler with at most n concurrent
// tasks. n below 1 means 1.
func NewLocal(n int, handler Handler) *Local {
	if n < 1 {
		n = 1
	}
	return &Local{handler: handler, sem: make(chan struct{}, n)}
}

type taskKey struct{}

// Spawn implements Runtime. A task waiting for a slot gives up when ctx is
// cancelled. A task spawned from inside another task of the same runtime
// runs in the caller when no slot is free, so nested fan-out cannot
// exhaust the slots and deadlock.
func (l *Local) Spawn(ctx context.Context, input []byte) *Future {
	f := &Future{done: make(chan struct{})}
	id := l.nextID.Add(1)
	ctx, logger := ctxlog.With(ctx, "taskID", id)

	if owner, _ := ctx.Value(taskKey{}).(*Local); owner == l {
		select {
		case l.sem <- struct{}{}:
			go func() {
				defer func() { <-l.sem }()
				l.execute(ctx, logger, input, f)
			}()
		default:
			logger.Debug("No free slot for nested task, running in caller.")
			l.execute(ctx, logger, input, f)
		}
		return f
	}

	go func() {
		select {
		case l.sem <- struct{}{}:
		case <-ctx.Done():
			f.resolve(nil, ctx.Err())
			return
		}
		defer func() { <-l.sem }()
		l.execute(ctx, logger, input, f)
	}()
	return f
}

func (l *Local) execute(ctx context.Context, logger *slog.Logger, input []byte, f *Future) {
	logger.Debug("Task started.", "input_bytes", len(input))
	output, err := l.run(context.WithValue(ctx, taskKey{}, l), input)
	if err != nil {
		logger.Debug("Task failed.", "error", err)
	} else {
		logger.Debug("Task finished.", "output_bytes", len(output))
	}
	f.resolve(output, err)
}

func (l *Local) run(ctx context.Context, input []byte) (output []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return l.handler(ctx, input)
}
