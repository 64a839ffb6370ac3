package partition

// dispatch.go is the tagged-variant boundary spec.md's DESIGN NOTES calls
// for: a small, exhaustive switch on Kind replacing a processor.type
// branch, so the engine only ever calls into State's own hook methods and
// never needs to know which worker backs a given partition.

// ForwardKernel runs the level-synchronous relaxation kernel for this
// partition's current level, dispatching to the CPU or accelerator
// implementation.
func (s *State) ForwardKernel(numThreads int, reportNotFinished func()) {
	switch s.Kind {
	case CPU:
		s.CPUForwardKernel(numThreads, reportNotFinished)
	case Accelerator:
		s.BuildFrontier(numThreads)
		s.AcceleratorForwardKernel(reportNotFinished)
	default:
		panic("partition: unknown Kind")
	}
}

// Scatter consumes the inbox's push values; identical on both workers
// since it only touches host-resident arrays.
func (s *State) Scatter(reportNotFinished func()) {
	s.CPUScatter(reportNotFinished)
}

// BackwardKernel runs the dependency-accumulation kernel for the current
// level, dispatching to the CPU or accelerator implementation.
func (s *State) BackwardKernel(superstep int, numThreads int, reportNotFinished func()) {
	switch s.Kind {
	case CPU:
		s.CPUBackwardKernel(superstep, numThreads, reportNotFinished)
	case Accelerator:
		if superstep == 1 {
			return
		}
		s.BuildFrontier(numThreads)
		s.AcceleratorBackwardKernel(superstep, reportNotFinished)
	default:
		panic("partition: unknown Kind")
	}
}

// BackwardGather stages delta for boundary vertices at level+1; identical
// on both workers.
func (s *State) BackwardGather() {
	s.CPUBackwardGather()
}
