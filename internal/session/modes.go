package session

import (
	"fmt"

	"astrocadet/internal/models"
)

type phase int

const (
	phaseSort phase = iota + 1
	phaseBurst
)

// modeRules is everything that differs between modes: where a module starts,
// what happens when the sort phase ends and how the burst result is recorded
type modeRules struct {
	menuTitle  string
	firstPhase phase
	afterSort  func(s *Session, module models.Module, score int)
	burstLabel string
	winNotice  string
	lossNotice string
}

// rulesByMode is filled in init: the afterSort hooks reach rulesFor through
// the session, which a package-level initializer cannot refer back to
var rulesByMode map[models.Mode]modeRules

func init() {
	rulesByMode = map[models.Mode]modeRules{
		models.ModeGraduate: {
			menuTitle:  "Graduate Mode",
			firstPhase: phaseSort,
			afterSort:  chainToBurst,
			burstLabel: "Graduate",
			winNotice:  "Module Complete!\nGreat job, Cadet!",
			lossNotice: "Module Failed!\nTry again, Cadet.",
		},
		models.ModeNormalSort: {
			menuTitle:  "Select Astro-Sort Topic",
			firstPhase: phaseSort,
			afterSort:  recordSortAndReturn,
		},
		models.ModeNormalBurst: {
			menuTitle:  "Select Cosmic-Burst Topic",
			firstPhase: phaseBurst,
			burstLabel: "Burst",
			winNotice:  "Level Clear!",
			lossNotice: "Game Over!",
		},
	}
}

// rulesFor panics on a mode outside the table: modes only come from ParseMode
// and the constants, so anything else is a bug
func rulesFor(mode models.Mode) modeRules {
	rules, ok := rulesByMode[mode]
	if !ok {
		panic(fmt.Sprintf("session: no rules for mode %d", int(mode)))
	}
	return rules
}

// scoreLabel is the leaderboard label for a module played in a given way
func scoreLabel(module models.Module, kind string) string {
	return fmt.Sprintf("%s (%s)", module.Title, kind)
}

// chainToBurst moves a graduate run on to the burst phase of the same module.
// The sort score is not recorded.
func chainToBurst(s *Session, module models.Module, _ int) {
	s.notice = "Phase 1 Complete!\n\nNow for Phase 2: Cosmic Burst!"
	s.startBurst(module)
}

func recordSortAndReturn(s *Session, module models.Module, score int) {
	s.scores.Save(scoreLabel(module, "Sort"), score)
	s.toMainMenu()
	s.notice = fmt.Sprintf("Level Complete!\nYour Final Score: %d", score)
}
