package models

import "fmt"

// Mode selects how a module is played and how its result is recorded
type Mode int

const (
	ModeNone Mode = iota
	ModeGraduate
	ModeNormalSort
	ModeNormalBurst
)

var modeNames = map[Mode]string{
	ModeGraduate:    "graduate",
	ModeNormalSort:  "normal-sort",
	ModeNormalBurst: "normal-burst",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return ""
}

// ParseMode converts a wire name into a Mode
func ParseMode(name string) (Mode, error) {
	for mode, modeName := range modeNames {
		if modeName == name {
			return mode, nil
		}
	}
	return ModeNone, fmt.Errorf("unknown mode %q", name)
}

// Screen is the navigation state shown to the player
type Screen string

const (
	ScreenMainMenu     Screen = "main-menu"
	ScreenNormalMenu   Screen = "normal-menu"
	ScreenModuleMenu   Screen = "module-menu"
	ScreenPlayingSort  Screen = "game-sort"
	ScreenPlayingBurst Screen = "game-burst"
	ScreenHighScores   Screen = "high-scores"
)
