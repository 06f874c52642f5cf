// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trial

import (
	"context"
	"log"
	"time"

	"github.com/relabs-tech/gesture_grid/internal/export"
	"github.com/relabs-tech/gesture_grid/internal/grid"
	"github.com/relabs-tech/gesture_grid/internal/sample"
)

// State enumerates the sequencer's phases.
type State int

const (
	Idle State = iota
	HomingDisplay
	AwaitingStart
	RunningTrial
	TrialComplete
)

var stateNames = map[State]string{
	Idle:          "Idle",
	HomingDisplay: "HomingDisplay",
	AwaitingStart: "AwaitingStart",
	RunningTrial:  "RunningTrial",
	TrialComplete: "TrialComplete",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// Status is the externally visible snapshot published on every change.
type Status struct {
	State      string     `json:"state"`
	Shape      grid.Shape `json:"shape"`
	ShapeIndex int        `json:"shapeIndex"`
	Iteration  int        `json:"iteration"`
	Highlight  *grid.Cell `json:"highlight,omitempty"`
	Code       string     `json:"code"`
	// Countdown marks the presentation pause after a shape advance; Shape
	// already names the upcoming shape.
	Countdown bool `json:"countdown"`
}

// Observer receives status snapshots from the sequencer loop. Calls arrive
// from that single goroutine, never concurrently.
type Observer interface {
	StateChanged(st Status)
}

// Config carries the timing and protocol constants of the experiment.
type Config struct {
	Shapes         []grid.Shape
	TrialsPerShape int
	// HomingDelay is the pause between the start edge clearing the home
	// cell and the target cell appearing.
	HomingDelay time.Duration
	// Countdown is the presentation pause after a shape advance, before
	// the next shape's home cell is shown.
	Countdown time.Duration
	// HeartTolerance is the timestamp window for matching a heart-rate
	// reading to an existing motion sample.
	HeartTolerance time.Duration
}

type eventKind int

const (
	evRun eventKind = iota
	evMotion
	evHeart
	evTimer
)

// event is the tagged union all producers hand off to the sequencer loop.
type event struct {
	kind     eventKind
	running  bool
	motion   sample.Motion
	heart    sample.Heart
	timerGen uint64
}

// pendingKind names what a scheduled timer will do when it fires.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingShowTarget
	pendingHomeAfterCountdown
)

// Sequencer drives the trial protocol. All state below the events channel is
// mutated exclusively by the Run loop (or by direct handle* calls in tests),
// so no locking is needed.
type Sequencer struct {
	cfg      Config
	selector *Selector
	exporter export.Exporter
	observer Observer

	events chan event

	state     State
	running   bool
	shapeIdx  int
	iteration int
	counts    *Counts
	buf       *sample.Buffer
	highlight *grid.Cell
	code      string

	timerGen uint64
	pending  pendingKind
	timer    *time.Timer
}

func New(cfg Config, selector *Selector, exporter export.Exporter, observer Observer) *Sequencer {
	if len(cfg.Shapes) == 0 {
		cfg.Shapes = grid.Sequence()
	}
	if cfg.TrialsPerShape <= 0 {
		cfg.TrialsPerShape = 10
	}
	return &Sequencer{
		cfg:      cfg,
		selector: selector,
		exporter: exporter,
		observer: observer,
		events:   make(chan event, 64),
		counts:   NewCounts(cfg.Shapes[0]),
		buf:      sample.NewBuffer(),
		code:     grid.CodeNone,
	}
}

// SetRunning hands a remote run-flag value to the sequencer loop.
func (q *Sequencer) SetRunning(v bool) {
	q.events <- event{kind: evRun, running: v}
}

// OfferMotion hands one motion reading to the sequencer loop.
func (q *Sequencer) OfferMotion(m sample.Motion) {
	q.events <- event{kind: evMotion, motion: m}
}

// OfferHeartRate hands one heart-rate reading to the sequencer loop.
func (q *Sequencer) OfferHeartRate(h sample.Heart) {
	q.events <- event{kind: evHeart, heart: h}
}

// Run owns all sequencer state. It activates the first shape's home display
// and then applies events in arrival order until ctx is cancelled.
func (q *Sequencer) Run(ctx context.Context) {
	q.activate()
	for {
		select {
		case <-ctx.Done():
			q.cancelTimer()
			return
		case ev := <-q.events:
			q.apply(ev)
		}
	}
}

func (q *Sequencer) apply(ev event) {
	switch ev.kind {
	case evRun:
		q.handleRun(ev.running)
	case evMotion:
		q.handleMotion(ev.motion)
	case evHeart:
		q.handleHeart(ev.heart)
	case evTimer:
		q.handleTimer(ev.timerGen)
	}
}

// activate performs the Idle → HomingDisplay transition: zeroed counts for
// the current shape, home cell highlighted.
func (q *Sequencer) activate() {
	q.counts.Reset(q.shape())
	q.showHome()
}

func (q *Sequencer) shape() grid.Shape {
	return q.cfg.Shapes[q.shapeIdx]
}

func (q *Sequencer) showHome() {
	home := grid.HomeCell(q.shape())
	q.state = HomingDisplay
	q.highlight = &home
	q.code = grid.CodeNone
	q.notify()
}

func (q *Sequencer) handleRun(v bool) {
	if v == q.running {
		return
	}
	q.running = v
	if v {
		q.startTrial()
	} else {
		q.stopTrial()
	}
}

// startTrial handles the rising edge: the home highlight is cleared and the
// target cell appears after the homing delay. A rising edge during the
// inter-shape countdown cuts the countdown short.
func (q *Sequencer) startTrial() {
	switch q.state {
	case HomingDisplay, TrialComplete:
		q.cancelTimer()
		q.state = AwaitingStart
		q.highlight = nil
		q.code = grid.CodeNone
		q.notify()
		q.schedule(q.cfg.HomingDelay, pendingShowTarget)
	default:
		log.Printf("sequencer: start edge ignored in state %s", q.state)
	}
}

// stopTrial handles the falling edge: one trial is complete whether or not
// the target ever appeared. A pending show-target timer is cancelled so the
// stale highlight can never fire afterwards.
func (q *Sequencer) stopTrial() {
	switch q.state {
	case AwaitingStart, RunningTrial:
		q.cancelTimer()
		q.state = TrialComplete
		q.highlight = nil
		q.code = grid.CodeNone
		q.iteration++
		q.notify()
		if q.iteration >= q.cfg.TrialsPerShape {
			q.advanceShape()
			return
		}
		q.showHome()
	default:
		log.Printf("sequencer: stop edge ignored in state %s", q.state)
	}
}

// advanceShape exports the completed shape's buffer, resets the counters and
// count table, moves to the next shape in the cycle, and shows its home cell
// after the countdown pause. An export failure is logged and the buffer is
// cleared regardless: that shape's data is lost, the protocol moves on.
func (q *Sequencer) advanceShape() {
	done := q.shape()
	samples := q.buf.DrainAll()
	if err := q.exporter.Export(samples, done.String()); err != nil {
		log.Printf("sequencer: export for shape %s failed, %d samples dropped: %v", done, len(samples), err)
	} else {
		log.Printf("sequencer: exported %d samples for shape %s", len(samples), done)
	}

	q.iteration = 0
	q.shapeIdx = (q.shapeIdx + 1) % len(q.cfg.Shapes)
	q.counts.Reset(q.shape())

	if q.cfg.Countdown > 0 {
		q.schedule(q.cfg.Countdown, pendingHomeAfterCountdown)
		q.notify()
		return
	}
	q.showHome()
}

func (q *Sequencer) handleTimer(gen uint64) {
	if gen != q.timerGen || q.pending == pendingNone {
		return // stale timer from a cancelled phase
	}
	kind := q.pending
	q.pending = pendingNone
	q.timer = nil

	switch kind {
	case pendingShowTarget:
		if q.state != AwaitingStart {
			return
		}
		cell := q.selector.Next(q.counts)
		q.state = RunningTrial
		q.highlight = &cell
		q.code = grid.Code(q.shape(), cell)
		q.notify()
	case pendingHomeAfterCountdown:
		if q.state != TrialComplete {
			return
		}
		q.showHome()
	}
}

func (q *Sequencer) handleMotion(m sample.Motion) {
	if !q.collecting() {
		return
	}
	q.buf.Append(sample.FromMotion(m, q.code))
}

func (q *Sequencer) handleHeart(h sample.Heart) {
	if !q.collecting() {
		return
	}
	q.buf.AttachHeartRate(h, q.cfg.HeartTolerance, q.code)
}

// collecting reports whether sensor pushes are recorded: only between the
// start and stop edges of a trial.
func (q *Sequencer) collecting() bool {
	return q.state == AwaitingStart || q.state == RunningTrial
}

// schedule arms a deferred transition. Each call invalidates any previously
// scheduled one via the generation counter.
func (q *Sequencer) schedule(d time.Duration, kind pendingKind) {
	q.cancelTimer()
	q.timerGen++
	q.pending = kind
	gen := q.timerGen
	q.timer = time.AfterFunc(d, func() {
		q.events <- event{kind: evTimer, timerGen: gen}
	})
}

func (q *Sequencer) cancelTimer() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.timerGen++
	q.pending = pendingNone
}

func (q *Sequencer) notify() {
	if q.observer == nil {
		return
	}
	q.observer.StateChanged(q.status())
}

func (q *Sequencer) status() Status {
	var hl *grid.Cell
	if q.highlight != nil {
		c := *q.highlight
		hl = &c
	}
	return Status{
		State:      q.state.String(),
		Shape:      q.shape(),
		ShapeIndex: q.shapeIdx,
		Iteration:  q.iteration,
		Highlight:  hl,
		Code:       q.code,
		Countdown:  q.pending == pendingHomeAfterCountdown,
	}
}
