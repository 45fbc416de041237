package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"astrocadet/internal/models"
	"astrocadet/internal/session"
)

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleNotice = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWord   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true).Reverse(true)
	styleBubble = tcell.StyleDefault.Foreground(tcell.ColorLightSkyBlue)
	styleLives  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

const footerOffset = 1

// Draw renders the current snapshot
func (a *App) Draw() {
	snap := a.session.Snapshot()
	a.screen.Clear()
	a.targets = a.targets[:0]

	drawText(a.screen, 2, 0, styleTitle, snap.Title)

	row := 1
	for _, line := range strings.Split(snap.Notice, "\n") {
		if line != "" {
			drawText(a.screen, 2, row, styleNotice, line)
			row++
		}
	}
	if a.status != "" {
		drawText(a.screen, 2, row, styleError, a.status)
		row++
	}
	row++

	switch snap.Screen {
	case models.ScreenMainMenu:
		a.drawMainMenu(snap, row)
	case models.ScreenNormalMenu:
		drawLines(a.screen, row, []string{"[s] Astro-Sort", "[b] Cosmic Burst"})
		a.drawFooter("Esc: back")
	case models.ScreenModuleMenu:
		a.drawModuleMenu(snap.Modules, row)
	case models.ScreenPlayingSort:
		a.drawSort(snap.Sort, row)
	case models.ScreenPlayingBurst:
		a.drawBurst(snap.Burst, row)
	case models.ScreenHighScores:
		a.drawHighScores(snap.HighScores, row)
	}

	a.screen.Show()
}

func (a *App) drawMainMenu(snap session.Snapshot, row int) {
	if snap.CatalogError != "" {
		drawText(a.screen, 2, row, styleError, snap.CatalogError)
		row += 2
	}
	drawLines(a.screen, row, []string{
		"[g] Graduate Mode",
		"[n] Normal Mode",
		"[h] High Scores",
		"[q] Quit",
	})
}

func (a *App) drawModuleMenu(modules []session.ModuleView, row int) {
	pages := pageCount(len(modules))
	a.page = min(a.page, pages-1)

	start := a.page * modulesPerPage
	end := min(start+modulesPerPage, len(modules))
	lines := make([]string, 0, end-start)
	for i, m := range modules[start:end] {
		lines = append(lines, fmt.Sprintf("[%d] %s", i+1, m.Title))
	}
	drawLines(a.screen, row, lines)

	if pages > 1 {
		drawText(a.screen, 2, row+len(lines)+1, styleDim, fmt.Sprintf("Page %d/%d", a.page+1, pages))
		a.drawFooter("1-9: choose topic  Left/Right: page  Esc: back")
		return
	}
	a.drawFooter("1-9: choose topic  Esc: back")
}

func (a *App) drawSort(v *session.SortView, row int) {
	drawText(a.screen, 2, row, styleText, fmt.Sprintf("Score: %d   Words left: %d/%d", v.Score, v.Remaining, v.Total))
	row += 2
	drawText(a.screen, 4, row, styleWord, " "+v.Word+" ")
	row += 2

	x := 2
	for i, target := range v.Targets {
		label := fmt.Sprintf("[%d] %s", i+1, target)
		drawText(a.screen, x, row, styleText, label)
		x += len(label) + 3
	}
	a.drawFooter("Press a box number to drop the word  Esc: back")
}

func (a *App) drawBurst(v *session.BurstView, row int) {
	lives := strings.Repeat("♥", v.Lives)
	drawText(a.screen, 2, row, styleText, "Find: "+v.Topic)
	drawText(a.screen, 2, row+1, styleLives, lives)
	drawText(a.screen, 4+len([]rune(lives)), row+1, styleText,
		fmt.Sprintf("Score: %d   Hits: %d/%d", v.Score, v.CorrectHits, v.Goal))

	width, height := a.screen.Size()
	top, bottom := row+3, height-footerOffset-1
	if bottom <= top {
		return
	}

	for _, b := range v.Bubbles {
		progress := 0.0
		if b.LifetimeSeconds > 0 {
			progress = b.AgeSeconds / b.LifetimeSeconds
		}
		progress = min(max(progress, 0), 1)

		label := fmt.Sprintf("(%c) %s", bubbleLetter(b.ID), b.Word)
		w := len([]rune(label))
		x := int(b.X/100*float64(width) + b.Drift/10*progress)
		x = min(max(x, 0), max(width-w, 0))
		y := bottom - int(progress*float64(bottom-top))

		drawText(a.screen, x, y, styleBubble, label)
		a.targets = append(a.targets, bubbleTarget{id: b.ID, x: x, y: y, w: w})
	}
	a.drawFooter("Type a bubble's letter or click it  Esc: back")
}

func (a *App) drawHighScores(entries []models.HighScoreEntry, row int) {
	if len(entries) == 0 {
		drawText(a.screen, 2, row, styleDim, "No scores yet. Play a game!")
	}
	for i, e := range entries {
		drawText(a.screen, 2, row+i, styleText, fmt.Sprintf("%2d. %-36s %6d", i+1, e.Label, e.Score))
	}
	a.drawFooter("Press any key to go back")
}

func (a *App) drawFooter(text string) {
	_, height := a.screen.Size()
	drawText(a.screen, 2, height-footerOffset, styleDim, text)
}

func drawLines(s tcell.Screen, row int, lines []string) {
	for i, line := range lines {
		drawText(s, 2, row+i, styleText, line)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
