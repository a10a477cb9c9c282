// Package memory keeps the agent's working memory: an append-only log of the
// queries it handled and the plans it made for them.
package memory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Protocol-Lattice/planagent/src/protocol"
)

// Meta identifies one logged query.
type Meta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
}

// NewMeta stamps a fresh record for query.
func NewMeta(now time.Time, query string) Meta {
	return Meta{ID: uuid.NewString(), Timestamp: now, Query: query}
}

// Record is either an Interaction or a ReflectedInteraction.
type Record interface {
	Meta() Meta
	// CurrentPlan is the plan in force for the record: the raw plan before
	// reflection, the final plan after it.
	CurrentPlan() protocol.PlanResponse
}

// Interaction is the record written right after planning.
type Interaction struct {
	Info Meta                  `json:"meta"`
	Plan protocol.PlanResponse `json:"plan"`
}

func NewInteraction(now time.Time, query string, plan protocol.PlanResponse) Interaction {
	return Interaction{Info: NewMeta(now, query), Plan: plan}
}

func (i Interaction) Meta() Meta                         { return i.Info }
func (i Interaction) CurrentPlan() protocol.PlanResponse { return i.Plan }

// Reflected finalizes the interaction with the reflection outcome. The
// returned record keeps the same identity.
func (i Interaction) Reflected(reflection protocol.ReflectionResult, final protocol.PlanResponse) ReflectedInteraction {
	return ReflectedInteraction{
		Info:        i.Info,
		InitialPlan: i.Plan,
		Reflection:  reflection,
		FinalPlan:   final,
	}
}

// ReflectedInteraction is the finalized record of a query.
type ReflectedInteraction struct {
	Info        Meta                      `json:"meta"`
	InitialPlan protocol.PlanResponse     `json:"initial_plan"`
	Reflection  protocol.ReflectionResult `json:"reflection"`
	FinalPlan   protocol.PlanResponse     `json:"final_plan"`
}

func (r ReflectedInteraction) Meta() Meta                         { return r.Info }
func (r ReflectedInteraction) CurrentPlan() protocol.PlanResponse { return r.FinalPlan }

var ErrEmptyLog = errors.New("interaction log is empty")

// Log is the per-agent interaction history. It is not safe for concurrent use.
type Log struct {
	records []Record
}

func NewLog() *Log { return &Log{} }

// Append adds a record at the end of the log.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// ReplaceLast swaps the newest record for r, which must describe the same query.
func (l *Log) ReplaceLast(r Record) error {
	if len(l.records) == 0 {
		return ErrEmptyLog
	}
	last := l.records[len(l.records)-1]
	if got, want := r.Meta().ID, last.Meta().ID; got != want {
		return fmt.Errorf("replace last interaction: id %s does not match %s", got, want)
	}
	l.records[len(l.records)-1] = r
	return nil
}

func (l *Log) Last() (Record, bool) {
	if len(l.records) == 0 {
		return nil, false
	}
	return l.records[len(l.records)-1], true
}

func (l *Log) Len() int { return len(l.records) }

// Records returns a copy of the log, oldest first.
func (l *Log) Records() []Record {
	return append([]Record(nil), l.records...)
}

// Recent returns up to n newest records, oldest first.
func (l *Log) Recent(n int) []Record {
	if n <= 0 {
		return nil
	}
	if n > len(l.records) {
		n = len(l.records)
	}
	return append([]Record(nil), l.records[len(l.records)-n:]...)
}
