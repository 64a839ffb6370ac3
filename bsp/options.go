package bsp

// EngineOptions mirrors the shape of the teacher's GraphOptions
// (graph/graph-options.go): the handful of knobs an operator tunes,
// parsed from flags by the CLI rather than hardcoded here.
type EngineOptions struct {
	NumThreads   uint32  // Goroutine parallelism within a partition's worker pool.
	NumPartitions uint32 // Number of BSP partitions to carve the graph into.
	DebugLevel   uint8   // 0 info, 1 debug, 2 trace -- matches utils.SetLevel.
	Epsilon      float64 // Approximate-mode error tolerance; 0 means exact.
	PollingRate  uint32  // Polling rate (ms) parsed from -poll; no engine code reads it.
	ColourOutput bool    // Whether to colourize console log output.
	Undirected   bool    // Whether the input graph should be doubled as undirected.
}

// DefaultEngineOptions returns the engine's zero-config defaults.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		NumThreads:    4,
		NumPartitions: 1,
		DebugLevel:    0,
		Epsilon:       0,
		PollingRate:   500,
		ColourOutput:  true,
		Undirected:    false,
	}
}
