package daq

import "testing"

func TestCommandReaderBasicLine(t *testing.T) {
	r := NewCommandReader(16)
	r.FeedBytes([]byte("on\n"))

	tok, ok := r.Poll(0)
	if !ok || tok != "on" {
		t.Fatalf("Poll = %q,%v, want \"on\",true", tok, ok)
	}
}

func TestCommandReaderCRLF(t *testing.T) {
	r := NewCommandReader(16)
	r.FeedBytes([]byte("off\r\n"))

	tok, ok := r.Poll(0)
	if !ok || tok != "off" {
		t.Fatalf("Poll = %q,%v, want \"off\",true", tok, ok)
	}
}

func TestCommandReaderTrimsWhitespace(t *testing.T) {
	r := NewCommandReader(16)
	r.FeedBytes([]byte("  id? \t\n"))

	tok, ok := r.Poll(0)
	if !ok || tok != "id?" {
		t.Fatalf("Poll = %q,%v, want \"id?\",true", tok, ok)
	}
}

func TestCommandReaderEmptyLineIsACommand(t *testing.T) {
	// A bare newline is a valid (toggle) command and must be delivered.
	r := NewCommandReader(16)
	r.Feed('\n')

	tok, ok := r.Poll(0)
	if !ok || tok != "" {
		t.Fatalf("Poll = %q,%v, want \"\",true", tok, ok)
	}
}

func TestCommandReaderQueuesFIFO(t *testing.T) {
	// Two lines in one drain: both must arrive, in order, one per poll.
	r := NewCommandReader(16)
	r.FeedBytes([]byte("r\non\n"))

	tok, ok := r.Poll(0)
	if !ok || tok != "r" {
		t.Fatalf("first Poll = %q,%v, want \"r\",true", tok, ok)
	}
	if _, ok := r.Poll(10); ok {
		t.Fatal("Poll ran again inside the rate-limit window")
	}
	tok, ok = r.Poll(CommandPollMillis)
	if !ok || tok != "on" {
		t.Fatalf("second Poll = %q,%v, want \"on\",true", tok, ok)
	}
	if _, ok := r.Poll(2 * CommandPollMillis); ok {
		t.Fatal("third Poll delivered a phantom command")
	}
}

func TestCommandReaderQueueOverflowDropsOldest(t *testing.T) {
	r := NewCommandReader(16)
	r.FeedBytes([]byte("a\nb\nc\nd\ne\n")) // one more than the queue holds

	want := []string{"b", "c", "d", "e"}
	for i, w := range want {
		tok, ok := r.Poll(uint32(i) * CommandPollMillis)
		if !ok || tok != w {
			t.Fatalf("Poll %d = %q,%v, want %q,true", i, tok, ok, w)
		}
	}
	if _, ok := r.Poll(uint32(len(want)) * CommandPollMillis); ok {
		t.Fatal("overflowed line was still delivered")
	}
}

func TestCommandReaderOverlongLineTruncated(t *testing.T) {
	r := NewCommandReader(4)
	r.FeedBytes([]byte("abcdefgh\n"))

	tok, ok := r.Poll(0)
	if !ok || tok != "abcd" {
		t.Fatalf("Poll = %q,%v, want truncated \"abcd\"", tok, ok)
	}
}

func TestCommandReaderPollRateLimit(t *testing.T) {
	r := NewCommandReader(16)

	if _, ok := r.Poll(0); ok {
		t.Fatal("empty reader delivered a command")
	}
	r.FeedBytes([]byte("on\n"))

	// Within the poll interval the completed line stays queued.
	if _, ok := r.Poll(CommandPollMillis - 1); ok {
		t.Fatal("Poll ran again inside the rate-limit window")
	}
	tok, ok := r.Poll(CommandPollMillis)
	if !ok || tok != "on" {
		t.Fatalf("Poll at interval = %q,%v, want \"on\",true", tok, ok)
	}
}

func TestCommandReaderPollSurvivesMillisRollover(t *testing.T) {
	r := NewCommandReader(16)

	if _, ok := r.Poll(0xFFFF_FFF0); ok {
		t.Fatal("empty reader delivered a command")
	}
	r.FeedBytes([]byte("r\n"))

	// 0xFFFF_FFF0 + 20 wraps to 4; the modular interval math must still
	// open the window.
	if _, ok := r.Poll(0xFFFF_FFFF); ok {
		t.Fatal("Poll ran 15 ms after the previous one")
	}
	tok, ok := r.Poll(4)
	if !ok || tok != "r" {
		t.Fatalf("Poll across rollover = %q,%v, want \"r\",true", tok, ok)
	}
}

func TestCommandReaderPartialLineNotDelivered(t *testing.T) {
	r := NewCommandReader(16)
	r.FeedBytes([]byte("on")) // no terminator yet

	if tok, ok := r.Poll(0); ok {
		t.Fatalf("Poll delivered incomplete line %q", tok)
	}
	r.Feed('\n')
	tok, ok := r.Poll(CommandPollMillis)
	if !ok || tok != "on" {
		t.Fatalf("Poll = %q,%v, want \"on\" once terminated", tok, ok)
	}
}
