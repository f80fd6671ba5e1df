package chapters

import (
	"strings"
	"testing"
)

func TestAppendAdvancesPlayhead(t *testing.T) {
	var list List
	list.Append("First", 12.48)
	list.Append("Second", 3.2)

	got := list.Chapters()
	if len(got) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(got))
	}
	if got[0].Start != 0 || got[0].End != 12480 {
		t.Fatalf("first chapter range: %d-%d", got[0].Start, got[0].End)
	}
	// Second chapter starts one tick past the first's end.
	if got[1].Start != 12481 || got[1].End != 12481+3200 {
		t.Fatalf("second chapter range: %d-%d", got[1].Start, got[1].End)
	}
}

func TestAppendNegativeDurationClampsToZero(t *testing.T) {
	var list List
	list.Append("Broken", -5)
	got := list.Chapters()
	if got[0].Start != got[0].End {
		t.Fatalf("expected empty range, got %d-%d", got[0].Start, got[0].End)
	}
}

func TestMarshalFormat(t *testing.T) {
	var list List
	list.Append("Opening Talk", 10)
	out := string(list.Marshal())

	if !strings.HasPrefix(out, ";FFMETADATA1\n") {
		t.Fatalf("missing header: %q", out)
	}
	for _, want := range []string{
		"[CHAPTER]\n",
		"TIMEBASE=1/1000\n",
		"START=0\n",
		"END=10000\n",
		"title=Opening Talk\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarshalEscapesTitles(t *testing.T) {
	var list List
	list.Append("a=b; #c", 1)
	out := string(list.Marshal())
	if !strings.Contains(out, `title=a\=b\; \#c`) {
		t.Fatalf("title not escaped:\n%s", out)
	}
}

func TestMarshalEmptyList(t *testing.T) {
	var list List
	out := string(list.Marshal())
	if strings.Contains(out, "[CHAPTER]") {
		t.Fatalf("empty list should have no chapters:\n%s", out)
	}
	if list.Len() != 0 {
		t.Fatalf("unexpected length %d", list.Len())
	}
}
