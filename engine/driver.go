// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package engine

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/rule"
)

// Outcome classifies how a PFP run ended: a fixed point, a proven
// oscillation, or the distinct "interrupted" case a caller-supplied
// step limit or break predicate introduces.
type Outcome int

const (
	// Unresolved means the run stopped before reaching either a fixed
	// point or a confirmed oscillation, because it ran out of steps or
	// the caller's break predicate fired. Not a final verdict.
	Unresolved Outcome = iota
	// SAT means the database reached a fixed point: the last step
	// produced no change.
	SAT
	// UNSAT means the database recurred to a state seen at an earlier,
	// non-final step: the partial fixed point oscillates and has no
	// stable model.
	UNSAT
)

func (o Outcome) String() string {
	switch o {
	case SAT:
		return "SAT"
	case UNSAT:
		return "UNSAT"
	default:
		return "INTERRUPTED"
	}
}

// Driver runs a compiled program's rules against the database BDD
// until it reaches a fixed point or proves there isn't one.
//
// The database starts empty (bdd.False): facts are compiled as
// head-only rules and asserted anew on every step, so the first step
// materialises them and every later step re-derives them. This is what
// makes a program like "p. q :- ~p. ~p :- q." oscillate instead of
// settling: deleting p does not stick, because the fact puts it back.
type Driver struct {
	B     *bdd.BDD
	Rules []*rule.Rule
	DB    bdd.Node
	Ar    int
	Bits  int
	Log   hclog.Logger

	steps        int
	seen         map[bdd.Node]bool
	last         Outcome
	contradicted bool
	nextGC       int
}

// gcFloor is the allocated-node count below which the PFP loop never
// bothers collecting.
const gcFloor = 1 << 16

// NewDriver returns a driver over store b, ready to run rules against
// an initial database. db is normally bdd.False (facts enter on the
// first step); a caller that wants to resume from a prior state may
// pass a non-empty one.
func NewDriver(b *bdd.BDD, rules []*rule.Rule, db bdd.Node, ar, bits int, log hclog.Logger) *Driver {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Driver{
		B: b, Rules: rules, DB: db, Ar: ar, Bits: bits, Log: log,
		seen:   map[bdd.Node]bool{db: true},
		nextGC: gcFloor,
	}
}

// Steps returns the number of steps taken so far.
func (d *Driver) Steps() int { return d.steps }

// LastOutcome returns the Outcome reported by the most recent Step, or
// Unresolved if no step has run yet. Exposed for the metrics package's
// tau_pfp_outcome gauge.
func (d *Driver) LastOutcome() Outcome { return d.last }

// Contradicted reports whether any step so far collapsed the database
// after deriving add and del sets that cancel each other out entirely
// (add & !del = F with add != F). The run's final Outcome still comes
// from the fixed-point/recurrence test; this flag records why the
// database went empty on the way there.
func (d *Driver) Contradicted() bool { return d.contradicted }

// Step fires every rule once against the current database and folds
// their contributions into the next one, following the update formula
// new_db = (db & !del) | (add & !del): positive-headed rules
// contribute to the add set, negative-headed rules to the del set, and
// a tuple only survives into the next database if it isn't
// simultaneously deleted.
//
// It reports whether the database changed, or a non-nil error only for
// store failures (bdd.BDD.Err). A contradiction (the add set entirely
// cancelled by the del set, with add nonempty) collapses the database
// to False and is recorded on the driver (Contradicted); the step then
// classifies the collapsed state like any other, so a run hit by a
// contradiction normally ends UNSAT on the next recurrence test, or
// SAT-on-empty if the database was already empty.
func (d *Driver) Step() (changed bool, outcome Outcome, err error) {
	defer func() { d.last = outcome }()
	cache := make(stepCache)
	add, del := bdd.False, bdd.False
	for _, r := range d.Rules {
		contrib := Fire(d.B, r, d.DB, cache, d.Ar, d.Bits)
		if contrib == bdd.False {
			continue
		}
		if r.Neg {
			del = d.B.Or(del, contrib)
		} else {
			add = d.B.Or(add, contrib)
		}
	}
	if err := d.B.Err(); err != nil {
		return false, Unresolved, err
	}

	var newDB bdd.Node
	if s := d.B.AndNot(add, del); s == bdd.False && add != bdd.False {
		d.Log.Debug("contradiction detected", "step", d.steps)
		d.contradicted = true
		newDB = bdd.False
	} else {
		newDB = d.B.Or(d.B.AndNot(d.DB, del), s)
	}
	if err := d.B.Err(); err != nil {
		return false, Unresolved, err
	}

	d.steps++
	if newDB == d.DB {
		return false, SAT, nil
	}
	if d.seen[newDB] {
		d.Log.Debug("oscillation detected", "step", d.steps)
		d.DB = newDB
		return true, UNSAT, nil
	}
	d.seen[newDB] = true
	d.DB = newDB
	return true, Unresolved, nil
}

// PFP runs Step until a fixed point (SAT), an oscillation (UNSAT),
// limit steps have passed, or shouldBreak returns true, whichever comes
// first. limit <= 0 means unbounded. shouldBreak, which may be nil, is
// consulted at step boundaries only, never mid-step.
func (d *Driver) PFP(limit int, shouldBreak func() bool) (Outcome, error) {
	for limit <= 0 || d.steps < limit {
		if shouldBreak != nil && shouldBreak() {
			return Unresolved, nil
		}
		_, outcome, err := d.Step()
		if err != nil {
			return Unresolved, fmt.Errorf("engine: step %d: %w", d.steps, err)
		}
		if outcome != Unresolved {
			return outcome, nil
		}
		d.maybeGC()
	}
	return Unresolved, nil
}

// maybeGC collects dead store nodes between steps once the allocated
// count has outgrown the last collection point. The live roots have to
// include every seen database, not just the current one: oscillation
// detection compares databases by node id, which is only sound while
// every snapshot's nodes stay interned.
func (d *Driver) maybeGC() {
	if s := d.B.Stats(); s.Allocated < d.nextGC {
		return
	}
	d.B.GC(d.liveRoots())
	after := d.B.Stats().Allocated
	d.nextGC = 2 * after
	if d.nextGC < gcFloor {
		d.nextGC = gcFloor
	}
}

func (d *Driver) liveRoots() []bdd.Node {
	roots := []bdd.Node{d.DB}
	for db := range d.seen {
		roots = append(roots, db)
	}
	for _, r := range d.Rules {
		roots = append(roots, r.HSym)
		roots = append(roots, r.Eqs...)
		for _, b := range r.Bodies {
			roots = append(roots, b.Sel, b.Ex)
			roots = append(roots, b.Eqs...)
		}
	}
	return roots
}
