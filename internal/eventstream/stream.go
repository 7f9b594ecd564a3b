package eventstream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/xrayreport/internal/aggregate"
	"github.com/mrz1836/xrayreport/internal/clock"
	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

// Reporter receives decoded events. *aggregate.Reporter satisfies it.
type Reporter interface {
	HandleSuiteStart(e domain.SuiteStart)
	HandleTestOutcome(kind constants.EventKind, e domain.TestOutcome)
	End(stats domain.RunStats) ([]domain.Result, error)
}

// Options configures a Run.
type Options struct {
	// Strict turns malformed, unknown and oversized lines into errors.
	Strict bool

	// Clock stamps the run start and end when the log leaves them out.
	// Defaults to the system clock.
	Clock clock.Clock
}

// Skipped records a line that was not delivered to the reporter.
type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Summary describes a completed Run.
type Summary struct {
	Results []domain.Result `json:"results"`
	Stats   domain.RunStats `json:"stats"`
	Lines   int             `json:"lines"`
	Events  int             `json:"events"`
	Skipped []Skipped       `json:"skipped,omitempty"`

	// EndSeen is false when the log ended without an end event and the run
	// was finalized at EOF.
	EndSeen bool `json:"end_seen"`

	// ClockTimes names the run times ("start", "end") that the end event
	// carried in an unreadable form and that were taken from the clock.
	ClockTimes []string `json:"clock_times,omitempty"`
}

type rawLine struct {
	n    int
	data []byte

	// tooLong marks a line longer than constants.MaxEventLineBytes. Its
	// data is dropped.
	tooLong bool
}

// Run reads the event log from r and delivers every event to rep in order.
// The run is finalized on the end event, or at EOF when the log has none.
func Run(ctx context.Context, r io.Reader, rep Reporter, opts Options, logger zerolog.Logger) (Summary, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	d := &dispatcher{
		rep:    rep,
		opts:   opts,
		logger: logger.With().Str("component", "eventstream").Logger(),
	}

	g, gctx := errgroup.WithContext(ctx)
	lines := make(chan rawLine, constants.EventBufferSize)

	g.Go(func() error {
		defer close(lines)
		return readLines(gctx, r, lines)
	})
	g.Go(func() error {
		return d.consume(gctx, lines)
	})

	err := g.Wait()
	return d.summary, err
}

// readLines reads r line by line and sends each line with its 1-based
// number. Oversized lines are drained and sent flagged, so reading goes on.
func readLines(ctx context.Context, r io.Reader, out chan<- rawLine) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for n := 1; ; n++ {
		data, tooLong, err := readLine(br, constants.MaxEventLineBytes)
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return xerrors.Wrapf(err, "reading event line %d", n)
		}
		if eof && len(data) == 0 && !tooLong {
			return nil
		}
		select {
		case out <- rawLine{n: n, data: data, tooLong: tooLong}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if eof {
			return nil
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed up to its end and returned as tooLong with no data.
func readLine(br *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > limit {
				tooLong = true
				line = nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if tooLong {
			return nil, true, err
		}
		return bytes.TrimRight(line, "\r\n"), false, err
	}
}

type dispatcher struct {
	rep     Reporter
	opts    Options
	logger  zerolog.Logger
	summary Summary

	runners domain.Runners
	start   string
	ended   bool
}

func (d *dispatcher) consume(ctx context.Context, lines <-chan rawLine) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return d.finishAtEOF()
			}
			if err := d.handle(line); err != nil {
				return err
			}
		}
	}
}

func (d *dispatcher) handle(line rawLine) error {
	d.summary.Lines = line.n
	if line.tooLong {
		err := fmt.Errorf("%w: line exceeds %d bytes", bufio.ErrTooLong, constants.MaxEventLineBytes)
		if d.opts.Strict {
			return xerrors.Wrapf(err, "line %d", line.n)
		}
		d.skip(line.n, err.Error())
		return nil
	}
	if len(bytes.TrimSpace(line.data)) == 0 {
		return nil
	}

	ev, err := DecodeLine(line.data)
	if err != nil {
		if d.opts.Strict {
			return xerrors.Wrapf(err, "line %d", line.n)
		}
		d.skip(line.n, err.Error())
		return nil
	}

	if d.start == "" {
		d.start = d.now()
	}
	d.summary.Events++

	switch ev.Kind {
	case constants.EventRunnerStart:
		if d.ended {
			d.skip(line.n, "runner:start after end")
			return nil
		}
		if !d.runners.Add(ev.Runner.CID, ev.Runner.SanitizedCapabilities) {
			d.logger.Debug().Str("cid", ev.Runner.CID).Msg("runner already registered")
		}
	case constants.EventSuiteStart:
		d.rep.HandleSuiteStart(ev.Suite)
	case constants.EventTestPass, constants.EventTestFail, constants.EventTestPending:
		d.rep.HandleTestOutcome(ev.Kind, ev.Outcome)
	case constants.EventEnd:
		if d.ended {
			d.skip(line.n, "repeated end event")
			return nil
		}
		return d.finish(ev.End)
	}
	return nil
}

// finish builds the run statistics and finalizes the reporter. Runners
// listed by the end event replace those announced by runner:start. Run
// times that cannot be parsed are replaced by clock times.
func (d *dispatcher) finish(end EndPayload) error {
	stats := domain.RunStats{
		Start:   end.Start,
		End:     end.End,
		Runners: d.runners,
	}
	if stats.Start == "" {
		stats.Start = d.start
	}
	if stats.Start == "" {
		stats.Start = d.now()
	}
	if stats.End == "" {
		stats.End = d.now()
	}
	if end.Runners != nil {
		stats.Runners = *end.Runners
	}
	stats.Start = d.readableTime("start", stats.Start, d.start)
	stats.End = d.readableTime("end", stats.End, "")

	results, err := d.rep.End(stats)
	if err != nil {
		return xerrors.Wrap(err, "finalizing run")
	}

	d.ended = true
	d.summary.EndSeen = true
	d.summary.Stats = stats
	d.summary.Results = results

	d.logger.Debug().
		Int("browsers", len(results)).
		Int("events", d.summary.Events).
		Msg("run complete")
	return nil
}

func (d *dispatcher) finishAtEOF() error {
	if d.ended {
		return nil
	}

	d.logger.Warn().
		Int("lines", d.summary.Lines).
		Msg("event log ended without an end event, finalizing partial run")

	if err := d.finish(EndPayload{}); err != nil {
		return err
	}
	d.summary.EndSeen = false
	return nil
}

// readableTime returns value when it parses as a run time. Otherwise it
// warns and returns fallback, or the clock time when fallback is empty.
func (d *dispatcher) readableTime(name, value, fallback string) string {
	if _, err := aggregate.ParseRunTime(value); err == nil {
		return value
	}
	if fallback == "" {
		fallback = d.now()
	}
	d.summary.ClockTimes = append(d.summary.ClockTimes, name)
	d.logger.Warn().
		Str("field", name).
		Str("value", value).
		Str("replacement", fallback).
		Msg("unreadable run time, using the clock")
	return fallback
}

func (d *dispatcher) skip(n int, reason string) {
	d.summary.Skipped = append(d.summary.Skipped, Skipped{Line: n, Reason: reason})
	d.logger.Warn().Int("line", n).Str("reason", reason).Msg("skipping event")
}

func (d *dispatcher) now() string {
	return d.opts.Clock.Now().UTC().Format(constants.InputTimestampLayout)
}
