package session

import (
	"astrocadet/internal/game"
	"astrocadet/internal/models"
)

// CatalogErrorMessage is shown in place of the menus when game data failed to load
const CatalogErrorMessage = "Could not load game data. Please refresh."

// Snapshot is what a presentation layer needs to draw the current screen
type Snapshot struct {
	SessionID    string                  `json:"session_id"`
	Screen       models.Screen           `json:"screen"`
	Mode         string                  `json:"mode,omitempty"`
	Title        string                  `json:"title,omitempty"`
	Notice       string                  `json:"notice,omitempty"`
	CatalogError string                  `json:"catalog_error,omitempty"`
	Modules      []ModuleView            `json:"modules,omitempty"`
	Sort         *SortView               `json:"sort,omitempty"`
	Burst        *BurstView              `json:"burst,omitempty"`
	HighScores   []models.HighScoreEntry `json:"high_scores,omitempty"`
}

type ModuleView struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type SortView struct {
	ModuleID  int      `json:"module_id"`
	Word      string   `json:"word,omitempty"`
	Targets   []string `json:"targets"`
	Score     int      `json:"score"`
	Remaining int      `json:"remaining"`
	Total     int      `json:"total"`
}

type BurstView struct {
	ModuleID    int          `json:"module_id"`
	Topic       string       `json:"topic"`
	Lives       int          `json:"lives"`
	Score       int          `json:"score"`
	CorrectHits int          `json:"correct_hits"`
	Goal        int          `json:"goal"`
	Bubbles     []BubbleView `json:"bubbles"`
}

// BubbleView leaves out whether the word is correct
type BubbleView struct {
	ID              int     `json:"id"`
	Word            string  `json:"word"`
	X               float64 `json:"x"`
	Drift           float64 `json:"drift"`
	LifetimeSeconds float64 `json:"lifetime_seconds"`
	AgeSeconds      float64 `json:"age_seconds"`
}

// Snapshot captures the current screen
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID: s.id,
		Screen:    s.screen,
		Mode:      s.mode.String(),
		Notice:    s.notice,
	}
	if s.catalogErr != nil {
		snap.CatalogError = CatalogErrorMessage
	}

	switch s.screen {
	case models.ScreenMainMenu:
		snap.Title = "Astro Cadet"
	case models.ScreenNormalMenu:
		snap.Title = "Normal Mode"
	case models.ScreenModuleMenu:
		snap.Title = rulesFor(s.mode).menuTitle
		if s.catalog != nil {
			for _, m := range s.catalog.Modules() {
				snap.Modules = append(snap.Modules, ModuleView{ID: m.ID, Title: m.Title})
			}
		}
	case models.ScreenPlayingSort:
		snap.Title = "Astro-Sort: " + s.sortGame.Module().Title
		snap.Sort = sortView(s.sortGame)
	case models.ScreenPlayingBurst:
		snap.Title = "Cosmic Burst: " + s.burstGame.Module().Title
		snap.Burst = s.burstView(s.burstGame)
	case models.ScreenHighScores:
		snap.Title = "High Scores"
		snap.HighScores = s.scores.LoadAll()
	}
	return snap
}

func sortView(g *game.SortGame) *SortView {
	v := &SortView{
		ModuleID:  g.Module().ID,
		Targets:   g.Targets(),
		Score:     g.Score(),
		Remaining: g.Remaining(),
		Total:     g.TotalWords(),
	}
	if word, ok := g.Current(); ok {
		v.Word = word.Text
	}
	return v
}

func (s *Session) burstView(g *game.BurstGame) *BurstView {
	now := s.sched.Now()
	v := &BurstView{
		ModuleID:    g.Module().ID,
		Topic:       g.Topic(),
		Lives:       g.Lives(),
		Score:       g.Score(),
		CorrectHits: g.CorrectHits(),
		Goal:        game.BurstHitGoal,
		Bubbles:     []BubbleView{},
	}
	for _, b := range g.Bubbles() {
		v.Bubbles = append(v.Bubbles, BubbleView{
			ID:              b.ID,
			Word:            b.Word,
			X:               b.X,
			Drift:           b.Drift,
			LifetimeSeconds: b.Lifetime.Seconds(),
			AgeSeconds:      now.Sub(b.SpawnedAt).Seconds(),
		})
	}
	return v
}
