package emotion

import "testing"

func TestClassifyCelebrating(t *testing.T) {
	label := Classify("great job, congratulations!! 🎉")
	if label != Celebrating {
		t.Fatalf("expected celebrating, got %s", label)
	}
}

func TestClassifyDefaultsToTalking(t *testing.T) {
	label := Classify("hello there")
	if label != Talking {
		t.Fatalf("expected talking, got %s", label)
	}
}

func TestClassifySingleHitIsNotEnough(t *testing.T) {
	// One keyword hit stays below the threshold.
	label := Classify("that was awesome")
	if label != Talking {
		t.Fatalf("expected talking for a single hit, got %s", label)
	}
}

func TestClassifyAngry(t *testing.T) {
	label := Classify("Warning! Be careful, that contract looks like a serious problem.")
	if label != Angry {
		t.Fatalf("expected angry, got %s", label)
	}
}

func TestClassifyThinking(t *testing.T) {
	label := Classify("Let me explain the concept: the reason is the principle behind it.")
	if label != Thinking {
		t.Fatalf("expected thinking, got %s", label)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("GREAT JOB, CONGRATULATIONS, WELL DONE"); got != Celebrating {
		t.Fatalf("expected celebrating for upper case input, got %s", got)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	if got := Classify(""); got != Talking {
		t.Fatalf("expected talking for empty input, got %s", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	const input = "congratulations on the achievement, what a success! but careful, warning, serious mistake"
	first := Classify(input)
	for i := 0; i < 20; i++ {
		if got := Classify(input); got != first {
			t.Fatalf("classification not deterministic: %s vs %s", first, got)
		}
	}
}

func TestClassifyAlwaysReturnsValidLabel(t *testing.T) {
	inputs := []string{
		"", "hello", "🎉🎊✨", "warning warning warning",
		"because therefore question", "ñandú über 中文",
	}
	for _, input := range inputs {
		if got := Classify(input); !Valid(string(got)) {
			t.Fatalf("Classify(%q) returned unknown label %s", input, got)
		}
	}
}
