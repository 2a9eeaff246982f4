package tracer

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadTraceRoundTrip(t *testing.T) {
	want := []Event{
		{Op: OpAlloc, ID: 1, Size: 128},
		{Op: OpCalloc, ID: 2, Nmemb: 4, Size: 16},
		{Op: OpRealloc, ID: 1, Size: 256},
		{Op: OpFree, ID: 2},
	}

	var buf bytes.Buffer
	if err := WriteTrace(&buf, want); err != nil {
		t.Fatalf("WriteTrace: %v", err)
	}

	got, err := ReadTrace(&buf)
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadTraceSkipsBlankAndCommentLines(t *testing.T) {
	src := "# a comment\n\na 1 32\n\nf 1\n"
	events, err := ReadTrace(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestReadTraceRejectsMalformedLines(t *testing.T) {
	cases := []string{
		"a\n",          // missing id and size
		"a 1\n",        // missing size
		"x 1 2\n",      // unknown op
		"c 1 4\n",      // calloc missing size field
		"r 1 2 3 4\n",  // too many fields
	}
	for _, src := range cases {
		if _, err := ReadTrace(strings.NewReader(src)); err == nil {
			t.Errorf("ReadTrace(%q): expected error, got nil", src)
		}
	}
}
