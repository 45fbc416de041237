package models

// Catalog is the static game content document
type Catalog struct {
	Modules []Module `json:"modules"`
}

// Module bundles a sort level and a burst level under a shared title
type Module struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	SortLevel  SortLevel  `json:"sort_level"`
	BurstLevel BurstLevel `json:"burst_level"`
}

// SortLevel is the content of one Astro-Sort round
type SortLevel struct {
	Boxes []string   `json:"boxes"`
	Words []SortWord `json:"words"`
}

// SortWord is a word and the box it belongs in
type SortWord struct {
	Text string `json:"text"`
	Box  string `json:"box"`
}

// BurstLevel is the content of one Cosmic-Burst round
type BurstLevel struct {
	Topic   string   `json:"topic"`
	Correct []string `json:"correct"`
	Wrong   []string `json:"wrong"`
}

// HasBox reports whether name is one of the level's boxes
func (l SortLevel) HasBox(name string) bool {
	for _, box := range l.Boxes {
		if box == name {
			return true
		}
	}
	return false
}
