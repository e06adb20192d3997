package rhyme

import "testing"

func TestKey(t *testing.T) {
	cases := map[string]string{
		"Twinkle, twinkle, little star": "star",
		"":                               "",
		"   ":                            "",
		"999":                            "",
		"up high!":                       "high",
	}
	for line, want := range cases {
		if got := Key(line); got != want {
			t.Errorf("Key(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestRhymes_EmptyNeverMatches(t *testing.T) {
	if Rhymes("", "") {
		t.Error("Rhymes(\"\", \"\") = true, want false")
	}
	if Rhymes("", "star") || Rhymes("star", "") {
		t.Error("empty key matched a non-empty key")
	}
}

func TestRhymes_ExactMatch(t *testing.T) {
	if !Rhymes("star", "star") {
		t.Error("expected identical keys to rhyme")
	}
}

func TestRhymes_SuffixMatch(t *testing.T) {
	if !suffixMatch("star", "costar") {
		t.Error("expected star/costar to match by shared 4-char suffix \"star\"")
	}
	if !Rhymes("star", "costar") {
		t.Error("expected star/costar to rhyme via the suffix rule")
	}
}

func TestRhymes_VowelSkeletonMatch(t *testing.T) {
	if !vowelSkeletonMatch("day", "way") {
		t.Error("expected day/way to match by vowel skeleton (shared trailing \"ay\", no trailing consonant)")
	}
	if !Rhymes("day", "way") {
		t.Error("expected day/way to rhyme")
	}
	if vowelSkeletonMatch("day", "sun") {
		t.Error("did not expect day/sun to share a vowel skeleton")
	}
}

func TestRhymes_CommonSuffixMatch(t *testing.T) {
	if !commonSuffixMatch("builder", "founder") {
		t.Error("expected builder/founder to match via the -er suffix rule (both preceded by 'd')")
	}
	if !Rhymes("builder", "founder") {
		t.Error("expected builder/founder to rhyme")
	}
	if commonSuffixMatch("builder", "dancer") {
		t.Error("did not expect builder/dancer to match (preceding char differs: d vs c)")
	}
}

func TestAnalyze_ABAB(t *testing.T) {
	lines := []string{
		"Stars shimmer through the quiet night",
		"Clouds drift slowly through the day",
		"Moonbeams scatter silver light",
		"Sunbeams find their gentle way",
	}
	labels, scheme := Analyze(lines)
	if len(labels) != len(lines) {
		t.Fatalf("got %d labels, want %d", len(labels), len(lines))
	}
	if labels[0] != labels[2] {
		t.Errorf("'night' and 'light' expected to rhyme (same group), got %v and %v", labels[0], labels[2])
	}
	if labels[1] != labels[3] {
		t.Errorf("'day' and 'way' expected to rhyme (same group), got %v and %v", labels[1], labels[3])
	}
	if labels[0] == labels[1] {
		t.Errorf("'night' and 'day' should not share a group")
	}
	if scheme != "ABAB" {
		t.Errorf("scheme = %q, want %q", scheme, "ABAB")
	}
}

func TestAnalyze_EmptyLinesNeverShareGroup(t *testing.T) {
	lines := []string{"", "123", ""}
	labels, _ := Analyze(lines)
	if labels[0] == labels[1] || labels[1] == labels[2] || labels[0] == labels[2] {
		t.Errorf("expected every blank/letterless line to get its own group, got %v", labels)
	}
}

func TestGroupOfAndPeersOf(t *testing.T) {
	lines := []string{
		"Stars shimmer through the quiet night",
		"Moonbeams scatter silver light",
		"Sunbeams find their gentle way",
	}
	labels, _ := Analyze(lines)
	if GroupOf(0, labels) != labels[0] {
		t.Error("GroupOf mismatch")
	}
	peers := PeersOf(0, labels)
	if len(peers) != 1 || peers[0] != 1 {
		t.Errorf("PeersOf(0) = %v, want [1]", peers)
	}
	for _, p := range peers {
		if p == 0 {
			t.Error("PeersOf should exclude the index itself")
		}
	}
}

func TestLabelForIndex_BijectiveBase26(t *testing.T) {
	cases := map[int]RhymeGroupId{
		0:  "A",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for n, want := range cases {
		if got := labelForIndex(n); got != want {
			t.Errorf("labelForIndex(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRhymes_Reflexive(t *testing.T) {
	for _, k := range []string{"star", "night", "calling", "xyzzy"} {
		if !Rhymes(k, k) {
			t.Errorf("Rhymes(%q, %q) = false, want true (reflexive)", k, k)
		}
	}
}

func TestRhymes_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"star", "costar"}, {"day", "way"}, {"builder", "founder"}, {"cat", "dog"},
	}
	for _, p := range pairs {
		if Rhymes(p[0], p[1]) != Rhymes(p[1], p[0]) {
			t.Errorf("Rhymes(%q,%q) != Rhymes(%q,%q)", p[0], p[1], p[1], p[0])
		}
	}
}
