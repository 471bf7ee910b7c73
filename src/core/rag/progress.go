package rag

import (
	"fmt"
	"math"
)

// Progress is emitted once per stored chunk.
type Progress struct {
	Done  int
	Total int
}

// ProgressFunc receives ingest progress. It is called synchronously from the
// ingest loop.
type ProgressFunc func(Progress)

// Percent is Done/Total*100 rounded to one decimal place.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return math.Round(float64(p.Done)/float64(p.Total)*1000) / 10
}

func (p Progress) String() string {
	return fmt.Sprintf("Processing %d of %d chunks (%.1f%%)", p.Done, p.Total, p.Percent())
}
