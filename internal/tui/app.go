// Package tui is the terminal front end: it draws session snapshots with
// tcell and turns keys and mouse clicks into session input.
package tui

import (
	"errors"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"astrocadet/internal/game"
	"astrocadet/internal/models"
	"astrocadet/internal/session"
)

const (
	frameInterval  = 50 * time.Millisecond
	modulesPerPage = 9
)

// App drives one session on a terminal screen
type App struct {
	screen  tcell.Screen
	session *session.Session
	status  string
	targets []bubbleTarget
	page    int
}

// bubbleTarget is where a bubble was last drawn, for mouse hit tests
type bubbleTarget struct {
	id      int
	x, y, w int
}

func NewApp(screen tcell.Screen, s *session.Session) *App {
	return &App{screen: screen, session: s}
}

// Run redraws every frame and handles input until the player quits
func (a *App) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	a.Draw()
	for {
		select {
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return
			}
			a.Draw()
		case <-ticker.C:
			a.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the player quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		return a.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.handleClick(x, y)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	snap := a.session.Snapshot()
	a.status = ""
	if snap.Screen != models.ScreenModuleMenu {
		a.page = 0
	}

	if ev.Key() == tcell.KeyEscape {
		if snap.Screen != models.ScreenMainMenu {
			a.session.Back()
		}
		return true
	}
	if snap.Screen == models.ScreenModuleMenu {
		switch ev.Key() {
		case tcell.KeyRight:
			a.page = min(a.page+1, pageCount(len(snap.Modules))-1)
		case tcell.KeyLeft:
			a.page = max(a.page-1, 0)
		}
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}
	r := unicode.ToLower(ev.Rune())

	switch snap.Screen {
	case models.ScreenMainMenu:
		switch r {
		case 'q':
			return false
		case 'g':
			a.report(a.session.SelectMode(models.ModeGraduate))
		case 'n':
			a.report(a.session.OpenNormalMenu())
		case 'h':
			a.report(a.session.ShowHighScores())
		}
	case models.ScreenNormalMenu:
		switch r {
		case 's':
			a.report(a.session.SelectMode(models.ModeNormalSort))
		case 'b':
			a.report(a.session.SelectMode(models.ModeNormalBurst))
		}
	case models.ScreenModuleMenu:
		if n, ok := digit(r); ok {
			if i := a.page*modulesPerPage + n - 1; i < len(snap.Modules) {
				a.report(a.session.SelectModule(snap.Modules[i].ID))
			}
		}
	case models.ScreenPlayingSort:
		if n, ok := digit(r); ok && n <= len(snap.Sort.Targets) {
			outcome, err := a.session.PlaceWord(snap.Sort.Targets[n-1])
			a.report(err)
			if err == nil && !outcome.Correct {
				a.screen.Beep()
			}
		}
	case models.ScreenPlayingBurst:
		for _, b := range snap.Burst.Bubbles {
			if bubbleLetter(b.ID) == r {
				a.click(b.ID)
				break
			}
		}
	case models.ScreenHighScores:
		a.session.Back()
	}
	return true
}

func (a *App) handleClick(x, y int) {
	for _, t := range a.targets {
		if y == t.y && x >= t.x && x < t.x+t.w {
			a.status = ""
			a.click(t.id)
			return
		}
	}
}

func (a *App) click(id int) {
	outcome, err := a.session.ClickBubble(id)
	a.report(err)
	if err == nil && !outcome.Correct {
		a.screen.Beep()
	}
}

func (a *App) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrCatalogUnavailable):
		a.status = session.CatalogErrorMessage
	case errors.Is(err, game.ErrNoSuchBubble):
		a.status = "Too slow, that bubble is gone."
	default:
		a.status = err.Error()
	}
}

// pageCount is the number of module menu pages, at least one
func pageCount(modules int) int {
	return max((modules+modulesPerPage-1)/modulesPerPage, 1)
}

func digit(r rune) (int, bool) {
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// bubbleLetter labels a bubble; far fewer than 26 are ever in play at once
func bubbleLetter(id int) rune {
	return rune('a' + (id-1)%26)
}
