// Package bsp implements the bulk-synchronous-parallel execution engine:
// a hard barrier between supersteps, with a per-partition finished flag
// that decides convergence. Named and shaped after the teacher's
// superstep/termination bookkeeping (graph/superstep.go,
// graph/termination.go), simplified from the teacher's asynchronous
// quorum-voting protocol to the plain "every flag true after a full
// superstep" scheme this engine's hard-barrier model allows.
package bsp

import "sync"

// Direction selects which fabric exchange runs at a superstep boundary.
type Direction int

const (
	Push Direction = iota
	Pull
)

func (d Direction) String() string {
	if d == Push {
		return "PUSH"
	}
	return "PULL"
}

// Round bundles the hooks for one engine.Execute call. Kernel is required;
// every other hook is optional (nil skips it). Init fires only on
// superstep 1; Finalize and Aggregate fire only once, on the superstep
// that achieves convergence.
type Round struct {
	Direction Direction

	Init      func(partition int)
	Kernel    func(partition int, superstep int)
	Scatter   func(partition int)
	Gather    func(partition int)
	Finalize  func(partition int)
	Aggregate func(partition int)
}

// Engine runs supersteps over a fixed number of partitions until every
// partition reports itself finished in the same superstep.
type Engine struct {
	NumPartitions int
	Finished      []bool
	Exchange      func(Direction)

	superstep int
}

// NewEngine builds an engine over numPartitions partitions. exchange is
// called after every superstep with the round's direction, and is
// expected to move data between partitions' fabrics (see grooves).
func NewEngine(numPartitions int, exchange func(Direction)) *Engine {
	return &Engine{
		NumPartitions: numPartitions,
		Finished:      make([]bool, numPartitions),
		Exchange:      exchange,
	}
}

// Superstep returns the 1-based superstep currently executing, or the
// last superstep run once Execute has returned.
func (e *Engine) Superstep() int { return e.superstep }

// ReportNotFinished is called by a hook to force at least one more
// superstep after this one.
func (e *Engine) ReportNotFinished(partition int) {
	e.Finished[partition] = false
}

// Execute runs round's hooks, superstep by superstep, until every
// partition's finished flag stays true through a full superstep.
func (e *Engine) Execute(round Round) {
	e.superstep = 0
	for {
		e.superstep++
		for p := range e.Finished {
			e.Finished[p] = true
		}

		var wg sync.WaitGroup
		wg.Add(e.NumPartitions)
		for p := 0; p < e.NumPartitions; p++ {
			go func(p int) {
				defer wg.Done()
				if e.superstep == 1 && round.Init != nil {
					round.Init(p)
				}
				round.Kernel(p, e.superstep)
				switch round.Direction {
				case Push:
					if round.Scatter != nil {
						round.Scatter(p)
					}
				case Pull:
					if round.Gather != nil {
						round.Gather(p)
					}
				}
			}(p)
		}
		wg.Wait()

		done := true
		for _, f := range e.Finished {
			if !f {
				done = false
				break
			}
		}

		if done {
			var fin sync.WaitGroup
			fin.Add(e.NumPartitions)
			for p := 0; p < e.NumPartitions; p++ {
				go func(p int) {
					defer fin.Done()
					if round.Finalize != nil {
						round.Finalize(p)
					}
					if round.Aggregate != nil {
						round.Aggregate(p)
					}
				}(p)
			}
			fin.Wait()
		}

		if e.Exchange != nil {
			e.Exchange(round.Direction)
		}

		if done {
			return
		}
	}
}
