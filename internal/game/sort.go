// Package game holds the two minigames: Astro-Sort and Cosmic-Burst.
//
// Neither type is safe for concurrent use. Callers serialize input events
// and timer callbacks, normally through a LockedScheduler sharing the
// caller's lock.
package game

import (
	"errors"

	"astrocadet/internal/models"
)

var (
	// ErrNotATarget is returned when a word is dropped somewhere other than a box
	ErrNotATarget = errors.New("not a drop target")
	// ErrPhaseOver is returned for input after a minigame has finished
	ErrPhaseOver = errors.New("phase is over")
	// ErrNoSuchBubble is returned for clicks on bubbles that are no longer in play
	ErrNoSuchBubble = errors.New("no such bubble")
)

const (
	// SortCorrectPoints is awarded for a word dropped in its own box
	SortCorrectPoints = 100
	// SortWrongPenalty is deducted for a word dropped in another box
	SortWrongPenalty = SortCorrectPoints / 2
)

// PlaceOutcome describes the result of one placement
type PlaceOutcome struct {
	Word    models.SortWord
	Target  string
	Correct bool
	Score   int
	Done    bool
}

// SortGame is one Astro-Sort round
type SortGame struct {
	module    models.Module
	remaining []models.SortWord
	score     int
	total     int
	done      bool
}

// NewSortGame starts a round with the module's words. Words are served from
// the end of the list.
func NewSortGame(module models.Module) *SortGame {
	words := module.SortLevel.Words
	remaining := make([]models.SortWord, len(words))
	copy(remaining, words)

	return &SortGame{
		module:    module,
		remaining: remaining,
		total:     len(words),
		done:      len(words) == 0,
	}
}

// Module returns the module being played
func (g *SortGame) Module() models.Module { return g.module }

// Targets returns the box labels words can be dropped on
func (g *SortGame) Targets() []string { return g.module.SortLevel.Boxes }

func (g *SortGame) Score() int     { return g.score }
func (g *SortGame) TotalWords() int { return g.total }
func (g *SortGame) Remaining() int  { return len(g.remaining) }
func (g *SortGame) Done() bool      { return g.done }

// Current returns the word on display
func (g *SortGame) Current() (models.SortWord, bool) {
	if len(g.remaining) == 0 {
		return models.SortWord{}, false
	}
	return g.remaining[len(g.remaining)-1], true
}

// Place drops the current word on target. A drop outside the boxes changes nothing.
// Otherwise the word is consumed whether or not it was right.
func (g *SortGame) Place(target string) (PlaceOutcome, error) {
	if g.done {
		return PlaceOutcome{}, ErrPhaseOver
	}
	if !g.module.SortLevel.HasBox(target) {
		return PlaceOutcome{}, ErrNotATarget
	}

	last := len(g.remaining) - 1
	word := g.remaining[last]
	g.remaining = g.remaining[:last]

	correct := word.Box == target
	if correct {
		g.score += SortCorrectPoints
	} else {
		g.score -= SortWrongPenalty
	}
	g.done = len(g.remaining) == 0

	return PlaceOutcome{
		Word:    word,
		Target:  target,
		Correct: correct,
		Score:   g.score,
		Done:    g.done,
	}, nil
}
