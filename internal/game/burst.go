package game

import (
	"math/rand/v2"
	"sort"
	"time"

	"astrocadet/internal/models"
)

const (
	BurstStartingLives  = 3
	BurstHitGoal        = 5
	BurstCorrectPoints  = 100
	BurstSpawnInterval  = 1200 * time.Millisecond
	bubbleMinX          = 5.0
	bubbleXRange        = 85.0
	bubbleMinLifetime   = 4 * time.Second
	bubbleLifetimeRange = 3 * time.Second
	bubbleDriftRange    = 200.0
)

// Bubble is a clickable word floating through the play area
type Bubble struct {
	ID        int
	Word      string
	Correct   bool
	X         float64 // percent of play-area width
	Lifetime  time.Duration
	Drift     float64 // cosmetic only
	SpawnedAt time.Time
}

// BurstResult is reported once when a round ends
type BurstResult struct {
	Module models.Module
	Won    bool
	Score  int
}

// ClickOutcome describes the result of one click
type ClickOutcome struct {
	Bubble  Bubble
	Correct bool
	Ended   bool
	Won     bool
}

type liveBubble struct {
	bubble Bubble
	expiry Timer
}

// BurstGame is one Cosmic-Burst round
type BurstGame struct {
	module  models.Module
	sched   Scheduler
	rng     *rand.Rand
	onEnd   func(BurstResult)
	lives   int
	score   int
	hits    int
	nextID  int
	bubbles map[int]*liveBubble
	spawner Timer
	active  bool
}

// StartBurstGame starts a round for module. A bubble spawns every
// BurstSpawnInterval until the round ends; onEnd is called exactly once
// when the player wins or runs out of lives.
func StartBurstGame(module models.Module, sched Scheduler, rng *rand.Rand, onEnd func(BurstResult)) *BurstGame {
	g := &BurstGame{
		module:  module,
		sched:   sched,
		rng:     rng,
		onEnd:   onEnd,
		lives:   BurstStartingLives,
		bubbles: make(map[int]*liveBubble),
		active:  true,
	}
	g.spawner = sched.AfterFunc(BurstSpawnInterval, g.tick)
	return g
}

func (g *BurstGame) Module() models.Module { return g.module }
func (g *BurstGame) Topic() string         { return g.module.BurstLevel.Topic }
func (g *BurstGame) Lives() int            { return g.lives }
func (g *BurstGame) Score() int            { return g.score }
func (g *BurstGame) CorrectHits() int      { return g.hits }
func (g *BurstGame) Active() bool          { return g.active }

// Bubbles returns the bubbles in play, oldest first
func (g *BurstGame) Bubbles() []Bubble {
	out := make([]Bubble, 0, len(g.bubbles))
	for _, lb := range g.bubbles {
		out = append(out, lb.bubble)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Click pops a bubble. Unknown or already removed bubbles are rejected
// without effect.
func (g *BurstGame) Click(id int) (ClickOutcome, error) {
	if !g.active {
		return ClickOutcome{}, ErrPhaseOver
	}
	lb, ok := g.bubbles[id]
	if !ok {
		return ClickOutcome{}, ErrNoSuchBubble
	}
	delete(g.bubbles, id)
	lb.expiry.Stop()

	outcome := ClickOutcome{Bubble: lb.bubble, Correct: lb.bubble.Correct}
	if lb.bubble.Correct {
		g.score += BurstCorrectPoints
		g.hits++
	} else {
		g.lives--
	}

	if g.lives <= 0 {
		outcome.Ended = true
		g.finish(false)
	} else if g.hits >= BurstHitGoal {
		outcome.Ended, outcome.Won = true, true
		g.finish(true)
	}

	return outcome, nil
}

// Stop abandons the round without reporting a result
func (g *BurstGame) Stop() {
	if !g.active {
		return
	}
	g.halt()
}

func (g *BurstGame) finish(won bool) {
	g.halt()
	if g.onEnd != nil {
		g.onEnd(BurstResult{Module: g.module, Won: won, Score: g.score})
	}
}

// halt cancels the spawner and pending expiries. Callbacks already queued
// see the round inactive and return.
func (g *BurstGame) halt() {
	g.active = false
	g.spawner.Stop()
	for id, lb := range g.bubbles {
		lb.expiry.Stop()
		delete(g.bubbles, id)
	}
}

func (g *BurstGame) tick() {
	if !g.active {
		return
	}
	g.spawn()
	g.spawner = g.sched.AfterFunc(BurstSpawnInterval, g.tick)
}

func (g *BurstGame) spawn() {
	level := g.module.BurstLevel
	correct := g.rng.Float64() < 0.5

	var word string
	if correct {
		word = level.Correct[g.rng.IntN(len(level.Correct))]
	} else {
		word = level.Wrong[g.rng.IntN(len(level.Wrong))]
	}

	g.nextID++
	b := Bubble{
		ID:        g.nextID,
		Word:      word,
		Correct:   correct,
		X:         g.rng.Float64()*bubbleXRange + bubbleMinX,
		Lifetime:  bubbleMinLifetime + time.Duration(g.rng.Float64()*float64(bubbleLifetimeRange)),
		Drift:     (g.rng.Float64() - 0.5) * bubbleDriftRange,
		SpawnedAt: g.sched.Now(),
	}

	id := b.ID
	g.bubbles[id] = &liveBubble{
		bubble: b,
		expiry: g.sched.AfterFunc(b.Lifetime, func() { g.expire(id) }),
	}
}

// expire removes a bubble that floated away unclicked. It is a no-op if the
// bubble was already clicked or the round is over.
func (g *BurstGame) expire(id int) {
	if !g.active {
		return
	}
	delete(g.bubbles, id)
}
