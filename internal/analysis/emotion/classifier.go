package emotion

import "strings"

// Label is the closed set of moods the mascot animation layer understands.
type Label string

const (
	Idle        Label = "idle"
	Talking     Label = "talking"
	Thinking    Label = "thinking"
	Celebrating Label = "celebrating"
	Angry       Label = "angry"
	Confused    Label = "confused"
	CrazyDance  Label = "crazy_dance"
)

// scoreThreshold is the minimum keyword count before a bucket may win.
// A single stray hit keeps the default talking animation.
const scoreThreshold = 2

// scoredLabels fixes the tie-break priority. Ranging over a map here would
// make ties non-deterministic, so the order is explicit.
var scoredLabels = []Label{Celebrating, Thinking, Angry}

var keywordBuckets = map[Label][]string{
	Celebrating: {
		"congratulations", "great job", "well done", "excellent", "amazing", "fantastic",
		"wonderful", "awesome", "perfect", "brilliant", "impressive", "outstanding",
		"success", "achievement", "celebrate", "hooray", "yay", "bravo", "superb",
		"🎉", "🎊", "✨", "🌟", "⭐", "🏆", "👏", "good job", "nice work", "proud",
	},
	Thinking: {
		"let me explain", "think about", "consider this", "ponder", "analyze",
		"understand", "concept", "theory", "principle", "reason", "because",
		"therefore", "complex", "intricate", "detailed", "specifically",
		"let's explore", "imagine", "suppose", "hypothesis", "question",
	},
	Angry: {
		"careful", "watch out", "warning", "danger", "oops", "mistake", "error",
		"incorrect", "wrong", "avoid", "don't", "shouldn't", "risky", "concern",
		"worried", "caution", "alert", "attention", "important", "critical",
		"serious", "issue", "problem", "⚠️", "❗", "❌",
	},
}

// Classify maps reply text to a mood label via keyword scoring. It is pure
// and total: any input, including the empty string, yields a valid Label.
func Classify(text string) Label {
	normalized := strings.ToLower(text)

	bestLabel := Talking
	bestScore := 0
	for _, label := range scoredLabels {
		score := 0
		for _, keyword := range keywordBuckets[label] {
			if strings.Contains(normalized, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestLabel = label
		}
	}

	if bestScore < scoreThreshold {
		return Talking
	}
	return bestLabel
}

// Valid reports whether raw is one of the known labels.
func Valid(raw string) bool {
	switch Label(raw) {
	case Idle, Talking, Thinking, Celebrating, Angry, Confused, CrazyDance:
		return true
	default:
		return false
	}
}
