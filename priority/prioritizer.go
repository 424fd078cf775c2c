// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package priority

import (
	"context"
	"log/slog"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/metrics"
)

// Source names where an order came from.
type Source string

const (
	SourceBaseline Source = "baseline"
	SourceOverride Source = "override"
)

// Reasoning texts returned with an order.
const (
	ReasonNoTasks         = "没有需要排序的任务"
	ReasonSingleTask      = "只有一个任务，无需排序"
	ReasonBaseline        = "使用本地算法进行优先级排序"
	ReasonRemoteFailed    = "AI 服务暂时不可用，使用本地算法排序"
	ReasonOverrideDefault = "AI 已根据创业早期特点进行智能排序"
)

// Result is an ordered list of task ids.
type Result struct {
	IDs       []string `json:"prioritizedIds"`
	Reasoning string   `json:"reasoning"`
	Source    Source   `json:"source"`
}

// overrideReply is the object the generator is asked to return.
type overrideReply struct {
	PrioritizedIDs []string `json:"prioritizedIds"`
	Reasoning      string   `json:"reasoning"`
}

// Prioritizer orders tasks.
type Prioritizer struct {
	generator ai.TextGenerator
	logger    *slog.Logger
}

// Option configures a Prioritizer.
type Option func(*Prioritizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prioritizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPrioritizer creates a prioritizer. A nil generator means baseline only.
func NewPrioritizer(generator ai.TextGenerator, opts ...Option) (*Prioritizer, error) {
	p := &Prioritizer{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "prioritizer")
	return p, nil
}

// Prioritize returns the task ids from most to least urgent.
// Only invalid input is reported as an error; remote problems fall back to
// the baseline order.
func (p *Prioritizer) Prioritize(ctx context.Context, tasks []core.Task) (*Result, error) {
	if err := core.ValidateTasks(tasks); err != nil {
		return nil, err
	}

	switch len(tasks) {
	case 0:
		return &Result{IDs: []string{}, Reasoning: ReasonNoTasks, Source: SourceBaseline}, nil
	case 1:
		return &Result{IDs: []string{tasks[0].ID}, Reasoning: ReasonSingleTask, Source: SourceBaseline}, nil
	}

	result := p.prioritize(ctx, tasks)
	metrics.PrioritizationsTotal.WithLabelValues(string(result.Source)).Inc()
	return result, nil
}

func (p *Prioritizer) prioritize(ctx context.Context, tasks []core.Task) *Result {
	baseline := &Result{IDs: Baseline(tasks), Reasoning: ReasonBaseline, Source: SourceBaseline}
	if p.generator == nil {
		return baseline
	}

	reply, err := p.generator.Generate(ctx, systemPrompt, buildPrompt(tasks))
	if err != nil {
		p.logger.Warn("remote prioritization failed, using baseline", "err", err)
		baseline.Reasoning = ReasonRemoteFailed
		return baseline
	}

	parsed, ok := ai.ExtractJSONObject[overrideReply](reply)
	if !ok {
		p.logger.Warn("unparseable prioritization reply, using baseline", "err", &ai.ParseError{Expected: "prioritization", Raw: reply})
		return baseline
	}
	if !IsPermutation(parsed.PrioritizedIDs, tasks) {
		p.logger.Warn("prioritization override rejected, using baseline", "ids", parsed.PrioritizedIDs)
		return baseline
	}

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = ReasonOverrideDefault
	}
	return &Result{IDs: parsed.PrioritizedIDs, Reasoning: reasoning, Source: SourceOverride}
}

// IsPermutation reports whether ids names every task exactly once and nothing else.
func IsPermutation(ids []string, tasks []core.Task) bool {
	if len(ids) != len(tasks) {
		return false
	}
	pending := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		pending[task.ID] = true
	}
	for _, id := range ids {
		if !pending[id] {
			return false
		}
		delete(pending, id)
	}
	return true
}
