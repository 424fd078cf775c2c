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

// Package decompose breaks a task into concrete subtasks with a text generator.
//
// There is no local fallback: a failed call or a reply with no usable list
// is returned to the caller, the latter as *ai.ParseError with the raw reply.
package decompose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

// MaxSubtasks caps how many subtasks are returned.
const MaxSubtasks = 7

// ErrGeneratorRequired is returned when a decomposer is created without a generator.
var ErrGeneratorRequired = errors.New("text generator required")

const systemPrompt = `你是一位创业教练和任务管理专家。你的职责是将复杂的创业任务拆解为具体、可执行的子任务。

拆解原则：
1. 每个子任务应该是具体、可操作的
2. 子任务之间应该有逻辑顺序
3. 每个子任务应该有明确的完成标准
4. 子任务数量控制在 3-7 个
5. 返回格式必须是纯 JSON 数组，不要包含任何其他文字

返回格式示例：
["子任务1", "子任务2", "子任务3"]

注意：只返回 JSON 数组，不要包含任何解释或额外文字。`

// Decomposer splits tasks into subtasks.
type Decomposer struct {
	generator ai.TextGenerator
	logger    *slog.Logger
}

// Option configures a Decomposer.
type Option func(*Decomposer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decomposer) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDecomposer creates a decomposer.
func NewDecomposer(generator ai.TextGenerator, opts ...Option) (*Decomposer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	d := &Decomposer{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	d.logger = d.logger.With("component", "decomposer")
	return d, nil
}

// Decompose asks the generator for subtasks of the given task.
func (d *Decomposer) Decompose(ctx context.Context, title, description string) ([]string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < 2 {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidTask, core.ErrTitleTooShort)
	}

	reply, err := d.generator.Generate(ctx, systemPrompt, buildPrompt(title, description))
	if err != nil {
		d.logger.Error("decomposition request failed", "err", err)
		return nil, err
	}

	subtasks := ParseSubtasks(reply)
	if len(subtasks) == 0 {
		d.logger.Error("no subtasks in reply", "reply", reply)
		return nil, &ai.ParseError{Expected: "subtask list", Raw: reply}
	}
	d.logger.Debug("decomposed task", "title", title, "subtasks", len(subtasks))
	return subtasks, nil
}

func buildPrompt(title, description string) string {
	var b strings.Builder
	b.WriteString("请将以下任务拆解为 3-7 个具体的子任务，以 JSON 数组格式返回：\n\n任务：")
	b.WriteString(title)
	if description != "" {
		b.WriteString("\n\n任务描述：")
		b.WriteString(description)
	}
	b.WriteString("\n\n")
	b.WriteString(`请直接返回 JSON 数组格式的子任务列表，例如：["子任务1", "子任务2", "子任务3"]`)
	return b.String()
}
