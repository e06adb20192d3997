package style

import "testing"

func TestTransfer_ExactWordCount(t *testing.T) {
	got := Transfer("Hello, World!", "goodbye earth")
	want := "Goodbye, Earth!"
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestTransfer_Deficit(t *testing.T) {
	got := Transfer("Twinkle twinkle little star", "shimmer shimmer")
	want := "Shimmer shimmer "
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestTransfer_Surplus(t *testing.T) {
	got := Transfer("Roar", "hear it roar tonight")
	want := "Hear it roar tonight"
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestTransfer_SurplusPreservesInteriorJoinsAndTrailing(t *testing.T) {
	got := Transfer("Twinkle twinkle little star!",
		"shimmer shimmer brightly little stars tonight")
	want := "Shimmer shimmer brightly little stars tonight!"
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestTransfer_EmptyOriginal(t *testing.T) {
	got := Transfer("", "hello world")
	want := "hello world"
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestTransfer_EmptyGenerated(t *testing.T) {
	got := Transfer("Hello, World!", "")
	want := ""
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestTransfer_AllUppercaseOriginalWord(t *testing.T) {
	got := Transfer("STOP now", "wait later")
	want := "Wait later"
	if got != want {
		t.Errorf("Transfer = %q, want %q", got, want)
	}
}

func TestApplyFirstLetterCase(t *testing.T) {
	if got := applyFirstLetterCase("hello", true); got != "Hello" {
		t.Errorf("got %q, want %q", got, "Hello")
	}
	if got := applyFirstLetterCase("Hello", false); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
	if got := applyFirstLetterCase("", true); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
