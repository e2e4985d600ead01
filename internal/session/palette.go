package session

import "math/rand"

// Bounded palette for participant color tags. Assignment is lowest unused
// first; once every color is held, new participants get a uniformly random
// entry and a transient duplicate is accepted.
var paletteColors = []string{
	"#3B82F6", // blue
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#84CC16", // lime
	"#F97316", // orange
	"#6366F1", // indigo
	"#14B8A6", // teal
	"#EAB308", // yellow
}

var colorNames = map[string]string{
	"#3B82F6": "Blue",
	"#10B981": "Green",
	"#F59E0B": "Amber",
	"#EF4444": "Red",
	"#8B5CF6": "Purple",
	"#EC4899": "Pink",
	"#06B6D4": "Cyan",
	"#84CC16": "Lime",
	"#F97316": "Orange",
	"#6366F1": "Indigo",
	"#14B8A6": "Teal",
	"#EAB308": "Yellow",
}

var animals = []string{
	"Falcon", "Eagle", "Hawk", "Owl", "Raven",
	"Wolf", "Fox", "Bear", "Tiger", "Lion",
	"Dolphin", "Whale", "Shark", "Octopus", "Turtle",
	"Dragon", "Phoenix", "Unicorn", "Griffin", "Pegasus",
	"Panther", "Jaguar", "Cheetah", "Lynx", "Leopard",
	"Elephant", "Rhino", "Hippo", "Giraffe", "Zebra",
	"Penguin", "Flamingo", "Peacock", "Swan", "Heron",
	"Butterfly", "Dragonfly", "Firefly", "Beetle", "Spider",
	"Otter", "Seal", "Walrus", "Beaver", "Raccoon",
	"Rabbit", "Squirrel", "Chipmunk", "Hamster", "Hedgehog",
}

// nextColor returns the first palette entry not present in taken, falling
// back to a random entry when the palette is exhausted.
func nextColor(taken map[string]bool) string {
	for _, c := range paletteColors {
		if !taken[c] {
			return c
		}
	}
	return paletteColors[rand.Intn(len(paletteColors))]
}

func colorName(color string) string {
	if name, ok := colorNames[color]; ok {
		return name
	}
	return "Unknown"
}

// displayName builds a "Color Animal" nickname, e.g. "Red Falcon".
func displayName(color string) string {
	return colorName(color) + " " + animals[rand.Intn(len(animals))]
}
