package daq

import "io"

// State of the acquisition loop. Transitions happen only through command
// tokens; the initial state is Idle.
type State uint8

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// SchedulerConfig carries the collaborators the scheduler does not own.
type SchedulerConfig struct {
	// Identity is emitted verbatim in response to the id? command.
	Identity string
	// Out receives identity lines and data frames.
	Out io.Writer
	// Status is optional; nil installs a no-op indicator.
	Status StatusIndicator
}

// Scheduler is the control loop state machine. All loop state lives in
// explicit fields so tests can construct independent instances; nothing is
// package-global.
//
// Each Step: poll the command reader (rate-limited internally), apply any
// resulting transition, then — only when Running and the primary channel
// reports a completed conversion — capture a timestamp, run one aggregation
// cycle and emit the frame. Command application therefore happens-before
// frame emission within an iteration, and a command observed in iteration k
// affects at most the frame of that same iteration.
type Scheduler struct {
	clock  *Clock
	agg    *Aggregator
	cmds   *CommandReader
	out    io.Writer
	status StatusIndicator

	identity string

	state         State
	rebasePending bool
	runStart      Timestamp
}

func NewScheduler(clock *Clock, agg *Aggregator, cmds *CommandReader, cfg SchedulerConfig) *Scheduler {
	st := cfg.Status
	if st == nil {
		st = nopIndicator{}
	}
	s := &Scheduler{
		clock:    clock,
		agg:      agg,
		cmds:     cmds,
		out:      cfg.Out,
		status:   st,
		identity: cfg.Identity,
		state:    Idle,
	}
	st.SetStatus(StatusIdle)
	return s
}

func (s *Scheduler) State() State { return s.state }

// Step runs one iteration of the control loop.
func (s *Scheduler) Step() error {
	now := s.clock.Now()
	if tok, ok := s.cmds.Poll(now.Millis); ok {
		if err := s.apply(tok); err != nil {
			return err
		}
	}

	if s.state != Running {
		return nil
	}
	ready, err := s.agg.Ready()
	if err != nil {
		return err
	}
	if !ready {
		return nil
	}

	ts := s.clock.Now()
	if s.rebasePending {
		// Zero the displayed time at the start-of-run instant; the
		// underlying counter keeps free-running.
		s.runStart = ts
		s.rebasePending = false
	}
	frame, err := s.agg.Sample(ts.Sub(s.runStart))
	if err != nil {
		return err
	}
	_, err = s.out.Write(frame)
	return err
}

// apply maps a command token to its state transition.
//
// The fallback branch deliberately toggles on any unrecognized token,
// including an empty line: a garbled command flips the run state instead of
// being rejected, and a bare newline works as a terminal convenience. Host
// software relies on this, so it stays.
func (s *Scheduler) apply(tok string) error {
	switch tok {
	case CmdIdentify:
		s.setState(Idle)
		if _, err := io.WriteString(s.out, s.identity+"\r\n"); err != nil {
			return err
		}
	case CmdReset:
		// Clears the hardware energy accumulators only. The run-relative
		// time base is untouched, and run/idle state does not change.
		return s.agg.ResetAll()
	case CmdOn:
		s.setState(Running)
	case CmdOff:
		s.setState(Idle)
	default:
		if s.state == Running {
			s.setState(Idle)
		} else {
			s.setState(Running)
		}
	}
	return nil
}

// setState performs the transition and its entry side effects. Entering
// Running from any other state schedules a time rebase before the next
// frame; re-entering Running while already running does not.
func (s *Scheduler) setState(next State) {
	if next == Running && s.state != Running {
		s.rebasePending = true
	}
	if next == s.state {
		return
	}
	s.state = next
	if next == Running {
		s.status.SetStatus(StatusRunning)
	} else {
		s.status.SetStatus(StatusIdle)
	}
}
