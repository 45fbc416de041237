// Package session runs one player's navigation state: menus, the active
// minigame and the notices shown when a phase ends.
package session

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"astrocadet/internal/catalog"
	"astrocadet/internal/game"
	"astrocadet/internal/models"
)

var (
	// ErrInvalidAction is returned for input the current screen does not accept
	ErrInvalidAction = errors.New("action not available on this screen")
	// ErrUnknownModule is returned when a module id is not in the catalog
	ErrUnknownModule = errors.New("unknown module")
	// ErrCatalogUnavailable is returned when game data failed to load
	ErrCatalogUnavailable = errors.New("game data unavailable")
)

// ScoreStore records finished results and reads the leaderboard back
type ScoreStore interface {
	Save(label string, score int)
	LoadAll() []models.HighScoreEntry
}

// Options are the dependencies of a Session
type Options struct {
	Catalog    *catalog.Catalog
	CatalogErr error
	Scores     ScoreStore
	Scheduler  game.Scheduler
	Rand       *rand.Rand
}

// Session is safe for concurrent use. Every method and every timer callback
// of the running minigame holds the same lock.
type Session struct {
	mu sync.Mutex

	id         string
	catalog    *catalog.Catalog
	catalogErr error
	scores     ScoreStore
	sched      game.Scheduler
	rng        *rand.Rand

	screen     models.Screen
	mode       models.Mode
	sortGame   *game.SortGame
	burstGame  *game.BurstGame
	notice     string
	lastActive time.Time
	closed     bool
}

// New creates a session on the main menu
func New(id string, opts Options) *Session {
	if opts.Scheduler == nil {
		opts.Scheduler = game.RealScheduler{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Catalog == nil && opts.CatalogErr == nil {
		opts.CatalogErr = errors.New("no catalog loaded")
	}

	s := &Session{
		id:         id,
		catalog:    opts.Catalog,
		catalogErr: opts.CatalogErr,
		scores:     opts.Scores,
		rng:        opts.Rand,
		screen:     models.ScreenMainMenu,
	}
	s.sched = game.LockedScheduler{Scheduler: opts.Scheduler, Lock: &s.mu}
	s.lastActive = opts.Scheduler.Now()
	return s
}

func (s *Session) ID() string { return s.id }

// LastActive is the time of the last player input
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// OpenNormalMenu shows the Astro-Sort / Cosmic-Burst choice
func (s *Session) OpenNormalMenu() error {
	return s.act(func() error {
		if s.screen != models.ScreenMainMenu {
			return ErrInvalidAction
		}
		s.screen = models.ScreenNormalMenu
		return nil
	})
}

// SelectMode activates mode and shows the module list for it
func (s *Session) SelectMode(mode models.Mode) error {
	rules := rulesFor(mode)

	return s.act(func() error {
		switch {
		case mode == models.ModeGraduate && s.screen != models.ScreenMainMenu:
			return ErrInvalidAction
		case mode != models.ModeGraduate && s.screen != models.ScreenNormalMenu:
			return ErrInvalidAction
		case s.catalogErr != nil:
			return ErrCatalogUnavailable
		}
		s.mode = mode
		s.screen = models.ScreenModuleMenu
		log.Printf("Session %s: %s selected (%s)", s.id, mode, rules.menuTitle)
		return nil
	})
}

// SelectModule starts the first phase of module id in the active mode
func (s *Session) SelectModule(id int) error {
	return s.act(func() error {
		if s.screen != models.ScreenModuleMenu {
			return ErrInvalidAction
		}
		if s.catalogErr != nil {
			return ErrCatalogUnavailable
		}
		module, ok := s.catalog.Module(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownModule, id)
		}

		switch rulesFor(s.mode).firstPhase {
		case phaseSort:
			s.startSort(module)
		case phaseBurst:
			s.startBurst(module)
		}
		return nil
	})
}

// PlaceWord drops the current Astro-Sort word on target
func (s *Session) PlaceWord(target string) (game.PlaceOutcome, error) {
	var outcome game.PlaceOutcome
	err := s.act(func() error {
		if s.screen != models.ScreenPlayingSort || s.sortGame == nil {
			return ErrInvalidAction
		}
		var err error
		outcome, err = s.sortGame.Place(target)
		if err != nil {
			return err
		}
		if outcome.Done {
			s.completeSort()
		}
		return nil
	})
	return outcome, err
}

// ClickBubble pops bubble id in the running Cosmic-Burst round
func (s *Session) ClickBubble(id int) (game.ClickOutcome, error) {
	var outcome game.ClickOutcome
	err := s.act(func() error {
		if s.screen != models.ScreenPlayingBurst || s.burstGame == nil {
			return ErrInvalidAction
		}
		var err error
		outcome, err = s.burstGame.Click(id)
		return err
	})
	return outcome, err
}

// ShowHighScores switches to the leaderboard
func (s *Session) ShowHighScores() error {
	return s.act(func() error {
		if s.screen != models.ScreenMainMenu {
			return ErrInvalidAction
		}
		s.screen = models.ScreenHighScores
		return nil
	})
}

// Back returns to the main menu from anywhere, abandoning a running minigame
func (s *Session) Back() {
	s.act(func() error {
		s.toMainMenu()
		return nil
	})
}

// Close stops any running round; the session accepts no further input
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toMainMenu()
	s.closed = true
}

// act serializes one player input. The notice from the previous phase end is
// cleared before the input is applied.
func (s *Session) act(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrInvalidAction
	}
	s.lastActive = s.sched.Now()
	s.notice = ""
	return fn()
}

func (s *Session) startSort(module models.Module) {
	s.sortGame = game.NewSortGame(module)
	s.screen = models.ScreenPlayingSort
	if s.sortGame.Done() {
		s.completeSort()
	}
}

func (s *Session) startBurst(module models.Module) {
	s.sortGame = nil
	s.screen = models.ScreenPlayingBurst
	s.burstGame = game.StartBurstGame(module, s.sched, s.rng, s.completeBurst)
}

// completeSort runs with the lock held
func (s *Session) completeSort() {
	module, score := s.sortGame.Module(), s.sortGame.Score()
	s.sortGame = nil
	rulesFor(s.mode).afterSort(s, module, score)
}

// completeBurst is the round's end callback. It runs with the lock held,
// either inside ClickBubble or inside a scheduled callback.
func (s *Session) completeBurst(result game.BurstResult) {
	rules := rulesFor(s.mode)
	s.scores.Save(scoreLabel(result.Module, rules.burstLabel), result.Score)

	notice := rules.lossNotice
	if result.Won {
		notice = rules.winNotice
	}
	s.burstGame = nil
	s.toMainMenu()
	s.notice = fmt.Sprintf("%s\nFinal Score: %d", notice, result.Score)
}

func (s *Session) toMainMenu() {
	if s.burstGame != nil {
		s.burstGame.Stop()
		s.burstGame = nil
	}
	s.sortGame = nil
	s.mode = models.ModeNone
	s.screen = models.ScreenMainMenu
	s.notice = ""
}
