package search

import "github.com/poiesic/curator/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results during ranking.
type RankMonitor interface {
	Start(query *core.Query)
	AfterLoad(total int)
	AfterExclusion(remaining int)
	SemanticFailed(err error)
	Finish(result *RankResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.Query)    {}
func (n *noopMonitor) AfterLoad(_ int)        {}
func (n *noopMonitor) AfterExclusion(_ int)   {}
func (n *noopMonitor) SemanticFailed(_ error) {}
func (n *noopMonitor) Finish(_ *RankResult)   {}
