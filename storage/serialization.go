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

package storage

import (
	"fmt"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/curator/core"
)

// MarshalInteraction serializes an Interaction to bytes.
// Timestamps are stored as Unix microseconds.
func MarshalInteraction(in *core.Interaction) []byte {
	var w writer
	w.int64(int64(in.ResourceID))
	w.string(string(in.Action))
	w.int64(in.Timestamp.UnixMicro())
	return w.bs
}

// UnmarshalInteraction deserializes an Interaction from bytes.
func UnmarshalInteraction(data []byte) (*core.Interaction, error) {
	r := reader{bs: data}
	in := &core.Interaction{
		ResourceID: core.ResourceID(r.int64()),
		Action:     core.Action(r.string()),
		Timestamp:  time.UnixMicro(r.int64()).UTC(),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return in, nil
}

// MarshalTags serializes a tag list to bytes.
func MarshalTags(tags []string) []byte {
	var w writer
	w.int(len(tags))
	for _, tag := range tags {
		w.string(tag)
	}
	return w.bs
}

// UnmarshalTags deserializes a tag list from bytes.
func UnmarshalTags(data []byte) ([]string, error) {
	r := reader{bs: data}
	n := r.length()
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, r.string())
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return tags, nil
}

// MarshalUsageRecord serializes a UsageRecord to bytes.
// Counters are written in feature order so equal records encode identically.
func MarshalUsageRecord(rec *core.UsageRecord) []byte {
	features := make([]string, 0, len(rec.Counts))
	for f := range rec.Counts {
		features = append(features, string(f))
	}
	slices.Sort(features)

	var w writer
	w.string(rec.Month)
	w.int(len(features))
	for _, f := range features {
		w.string(f)
		w.int(rec.Counts[core.Feature(f)])
	}
	return w.bs
}

// UnmarshalUsageRecord deserializes a UsageRecord from bytes.
func UnmarshalUsageRecord(data []byte) (*core.UsageRecord, error) {
	r := reader{bs: data}
	rec := &core.UsageRecord{Month: r.string()}
	n := r.length()
	rec.Counts = make(map[core.Feature]int, n)
	for i := 0; i < n; i++ {
		f := core.Feature(r.string())
		rec.Counts[f] = r.int()
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return rec, nil
}

// MarshalFeedbackRecord serializes a FeedbackRecord to bytes.
func MarshalFeedbackRecord(rec *core.FeedbackRecord) []byte {
	var w writer
	w.string(rec.ID)
	w.int64(int64(rec.ResourceID))
	w.string(string(rec.Action))
	w.string(rec.UserID)
	w.int64(rec.Timestamp.UnixMicro())
	return w.bs
}

// UnmarshalFeedbackRecord deserializes a FeedbackRecord from bytes.
func UnmarshalFeedbackRecord(data []byte) (*core.FeedbackRecord, error) {
	r := reader{bs: data}
	rec := &core.FeedbackRecord{
		ID:         r.string(),
		ResourceID: core.ResourceID(r.int64()),
		Action:     core.Action(r.string()),
		UserID:     r.string(),
		Timestamp:  time.UnixMicro(r.int64()).UTC(),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return rec, nil
}

// writer appends MUS-encoded values.
type writer struct {
	bs []byte
}

func (w *writer) grow(n int) []byte {
	start := len(w.bs)
	w.bs = append(w.bs, make([]byte, n)...)
	return w.bs[start:]
}

func (w *writer) int64(v int64) {
	varint.Int64.Marshal(v, w.grow(varint.Int64.Size(v)))
}

func (w *writer) int(v int) {
	varint.Int.Marshal(v, w.grow(varint.Int.Size(v)))
}

func (w *writer) string(v string) {
	ord.String.Marshal(v, w.grow(ord.String.Size(v)))
}

// reader decodes MUS values in sequence. The first error sticks and
// later reads return zero values.
type reader struct {
	bs  []byte
	off int
	err error
}

func (r *reader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.off:])
	r.advance(n, err)
	return v
}

func (r *reader) int() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.bs[r.off:])
	r.advance(n, err)
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.off:])
	r.advance(n, err)
	return v
}

// length reads a collection length and rejects values that cannot fit in the
// remaining bytes.
func (r *reader) length() int {
	n := r.int()
	if r.err == nil && (n < 0 || n > len(r.bs)-r.off) {
		r.err = fmt.Errorf("%w: invalid length %d", ErrSerializationFailed, n)
		return 0
	}
	return n
}

func (r *reader) advance(n int, err error) {
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		return
	}
	r.off += n
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.bs) {
		return fmt.Errorf("%w: %d trailing bytes", ErrTruncatedData, len(r.bs)-r.off)
	}
	return nil
}
