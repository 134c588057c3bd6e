package experiment

import (
	"math/rand"
	"time"
)

var (
	adjectives = []string{
		"autumn", "hidden", "bitter", "misty", "silent", "empty", "dry", "dark",
		"summer", "icy", "delicate", "quiet", "hollow", "cool", "spring", "winter",
		"patient", "twilight", "dawn", "crimson", "wispy", "muffled", "distant",
		"billowing", "broken", "cold", "damp", "falling", "frosty", "humming",
		"long", "late", "lingering", "bold", "little", "morning", "ringing", "old",
		"red", "rough", "still", "small", "sparkling", "throbbing", "shy",
		"wandering", "whispering", "wild", "echoing", "young", "resonant", "solitary",
	}

	nouns = []string{
		"canyon", "cathedral", "cellar", "chamber", "corridor", "cave", "hall",
		"stairwell", "tunnel", "attic", "vault", "atrium", "bell", "drum", "choir",
		"organ", "chime", "gong", "horn", "flute", "cello", "voice", "echo",
		"murmur", "whisper", "thunder", "rain", "wind", "river", "brook", "surf",
		"forest", "meadow", "valley", "glade", "pond", "harbor", "bridge", "well",
	}
)

// GenerateExperimentName creates a memorable experiment identifier
// in the format "adjective-noun"
func GenerateExperimentName(rng *rand.Rand) string {
	adj := adjectives[rng.Intn(len(adjectives))]
	noun := nouns[rng.Intn(len(nouns))]
	return adj + "-" + noun
}

// GenerateExperimentID creates a unique experiment identifier by combining
// the memorable name with a timestamp
func GenerateExperimentID(now time.Time) string {
	rng := rand.New(rand.NewSource(now.UnixNano()))
	return GenerateExperimentName(rng) + "-" + now.UTC().Format("20060102-150405")
}
