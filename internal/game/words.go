package game

import (
	"math/rand"

	"github.com/samber/lo"
)

type Word struct {
	Text       string
	Difficulty Difficulty
	Clues      []string
}

// DefaultWords is the built-in word bank.
var DefaultWords = []Word{
	{"atom", Easy, []string{"Smallest unit of an element", "Has a nucleus", "Protons, neutrons and electrons"}},
	{"magnet", Easy, []string{"Has north and south poles", "Attracts iron", "Used in a compass"}},
	{"prism", Easy, []string{"Splits white light", "Has triangular faces", "Makes a rainbow"}},
	{"pendulum", Medium, []string{"Swings back and forth", "Found in old clocks", "Its period depends on length"}},
	{"volcano", Medium, []string{"A mountain that erupts", "Contains magma", "Lava flows from it"}},
	{"circuit", Medium, []string{"Closed path for current", "Has a battery and wires", "Can be series or parallel"}},
	{"photosynthesis", Hard, []string{"Happens in leaves", "Needs sunlight", "Produces glucose and oxygen"}},
	{"refraction", Hard, []string{"Bending of light", "A straw looks broken in water", "Snell's law"}},
	{"tectonics", Hard, []string{"Plates of the earth", "Causes earthquakes", "Continental drift"}},
}

// PickWord draws a random word of the given difficulty from words.
func PickWord(words []Word, d Difficulty, rnd *rand.Rand) (Word, bool) {
	candidates := lo.Filter(words, func(w Word, _ int) bool { return w.Difficulty == d })
	if len(candidates) == 0 {
		return Word{}, false
	}
	return candidates[rnd.Intn(len(candidates))], true
}
