package daq

// Command tokens with a fixed effect. Any other completed line — including
// an empty one — toggles the run state; see Scheduler.apply.
const (
	CmdIdentify = "id?"
	CmdReset    = "r"
	CmdOn       = "on"
	CmdOff      = "off"
)

// CommandPollMillis is the minimum interval between command polls. Command
// latency is decoupled from the acquisition loop: sampling may run far
// faster than this, but the line buffer is only inspected at this cadence.
const CommandPollMillis = 20

// commandQueueDepth is the number of completed lines held between polls.
// Hosts batch short command sequences ("r" then "on") into one UART drain,
// so each must survive until its own poll window.
const commandQueueDepth = 4

// CommandReader assembles newline-terminated command lines from bytes fed
// in by the transport and hands out at most one trimmed token per poll.
// Completed lines queue FIFO in a fixed ring; when the ring is full the
// oldest line is dropped so the freshest commands survive.
// It is not safe for concurrent use; feed and poll from the control loop.
type CommandReader struct {
	line  []byte
	queue [commandQueueDepth][]byte
	head  int // next line to deliver
	count int
	max   int

	lastPoll uint32
	polled   bool
}

func NewCommandReader(maxLine int) *CommandReader {
	if maxLine <= 0 {
		maxLine = 64
	}
	r := &CommandReader{
		line: make([]byte, 0, maxLine),
		max:  maxLine,
	}
	for i := range r.queue {
		r.queue[i] = make([]byte, 0, maxLine)
	}
	return r
}

// Feed appends one byte to the line buffer. CR is ignored so both "\n" and
// "\r\n" hosts work; LF completes the line and enqueues it. Bytes beyond
// the maximum line length are dropped.
func (r *CommandReader) Feed(b byte) {
	switch b {
	case '\n':
		if r.count == commandQueueDepth {
			r.head = (r.head + 1) % commandQueueDepth
			r.count--
		}
		slot := (r.head + r.count) % commandQueueDepth
		r.queue[slot] = append(r.queue[slot][:0], r.line...)
		r.count++
		r.line = r.line[:0]
	case '\r':
		// ignore
	default:
		if len(r.line) < r.max {
			r.line = append(r.line, b)
		}
	}
}

// FeedBytes feeds a chunk of received bytes.
func (r *CommandReader) FeedBytes(p []byte) {
	for _, b := range p {
		r.Feed(b)
	}
}

// Poll returns the oldest queued command token, if any, at most once per
// CommandPollMillis. nowMillis comes from the acquisition clock; the
// interval comparison is modulo 2^32 and survives counter rollover.
func (r *CommandReader) Poll(nowMillis uint32) (string, bool) {
	if r.polled && nowMillis-r.lastPoll < CommandPollMillis {
		return "", false
	}
	r.polled = true
	r.lastPoll = nowMillis
	if r.count == 0 {
		return "", false
	}
	tok := string(trim(r.queue[r.head]))
	r.head = (r.head + 1) % commandQueueDepth
	r.count--
	return tok, true
}

func trim(b []byte) []byte {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	end := len(b)
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return b[start:end]
}
