package newsletter

import (
	"context"
	"sync/atomic"

	"github.com/21haoxingxiu/core/internal/model"
)

type Result int

const (
	Continue Result = iota
	Abort
)

type State int

const (
	StatePending State = iota
	StateFanningOut
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFanningOut:
		return "fanning_out"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Run carries one published item through the chain.
type Run struct {
	Content model.Content
	State   State

	sent   atomic.Int64
	failed atomic.Int64
}

func (r *Run) Sent() int64   { return r.sent.Load() }
func (r *Run) Failed() int64 { return r.failed.Load() }

type Stage func(ctx context.Context, run *Run) Result

// Chain runs stages in order until one aborts.
type Chain struct {
	stages []Stage
}

func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

func (c *Chain) Use(stage Stage) *Chain {
	c.stages = append(c.stages, stage)
	return c
}

func (c *Chain) Start(ctx context.Context, run *Run) State {
	run.State = StatePending
	for _, stage := range c.stages {
		if stage(ctx, run) == Abort {
			run.State = StateAborted
			return run.State
		}
	}
	run.State = StateDone
	return run.State
}
