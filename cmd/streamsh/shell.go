package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/erigontech/erigon-lib/log/v3"
	"github.com/spf13/afero"

	"github.com/erigontech/stream"
)

type sessionConfig struct {
	Preview int    `toml:"preview"`
	Prompt  string `toml:"prompt"`
	Trace   bool   `toml:"trace"`
}

func defaultConfig() sessionConfig {
	return sessionConfig{
		Preview: stream.DefaultPreviewLimit,
		Prompt:  ">",
	}
}

// named predicates accepted by filter, split, quantify, first and last
var predicates = map[string]func(int64) bool{
	"even":    func(v int64) bool { return v%2 == 0 },
	"odd":     func(v int64) bool { return v%2 != 0 },
	"pos":     func(v int64) bool { return v > 0 },
	"neg":     func(v int64) bool { return v < 0 },
	"zero":    func(v int64) bool { return v == 0 },
	"nonzero": func(v int64) bool { return v != 0 },
}

const helpText = `sources (replace the current stream):
  range FROM TO [STEP]  half-open integer range
  vals V...             literal values
  file PATH             whitespace-separated integers read from a file
  rand N [MAX]          N random values in [0,MAX), MAX defaults to 100
wrappers (rewrap the current stream):
  filter PRED | unique | compact | cycle N | head N | tail N | prepend V | append V
  split PRED            partition into two slots, matching elements first
  join                  round-robin the slots back into the current stream
consumers (drain the current stream):
  next [N]              produce the next N elements, default 1
  show                  preview of the remaining elements
  count | quantify PRED | first [PRED] | last [PRED] | nth N | collect
session:
  drop | help | quit
predicates: even odd pos neg zero nonzero`

// shell - a line-oriented session over one current stream of int64. The current stream is
// always an Inspected, so 'show' renders its preview and 'next' steps through it; the prompt
// echoes how many elements were produced so far. Command failures are printed and the
// session continues.
type shell struct {
	cur         *stream.Inspected[int64]
	slots       []stream.Uno[int64] // filled by split, drained by join
	cfg         sessionConfig
	fs          afero.Fs
	logger      log.Logger
	out         io.Writer
	interactive bool
}

func newShell(cfg sessionConfig, fs afero.Fs, logger log.Logger, out io.Writer) *shell {
	return &shell{cfg: cfg, fs: fs, logger: logger, out: out}
}

func (s *shell) run(in io.Reader) error {
	if s.interactive {
		fmt.Fprintln(s.out, "streamsh - type 'help' for commands")
	}
	scanner := bufio.NewScanner(in)
	for {
		if s.interactive {
			s.printPrompt()
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := s.exec(line); quit {
			return nil
		}
	}
	return scanner.Err()
}

func (s *shell) printPrompt() {
	if s.cur != nil {
		fmt.Fprintf(s.out, "[%d]%s ", s.cur.Consumed(), s.cfg.Prompt)
		return
	}
	fmt.Fprintf(s.out, "%s ", s.cfg.Prompt)
}

func (s *shell) exec(line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "range":
		err = s.cmdRange(args)
	case "vals":
		err = s.cmdVals(args)
	case "file":
		err = s.cmdFile(args)
	case "rand":
		err = s.cmdRand(args)
	case "filter":
		err = s.cmdFilter(args)
	case "unique":
		err = s.cmdUnique()
	case "compact":
		err = s.cmdCompact()
	case "cycle":
		err = s.cmdCycle(args)
	case "head":
		err = s.cmdHead(args)
	case "tail":
		err = s.cmdTail(args)
	case "prepend":
		err = s.cmdPrepend(args)
	case "append":
		err = s.cmdAppend(args)
	case "split":
		err = s.cmdSplit(args)
	case "join":
		err = s.cmdJoin()
	case "next":
		err = s.cmdNext(args)
	case "show":
		err = s.cmdShow()
	case "count":
		err = s.cmdCount()
	case "quantify":
		err = s.cmdQuantify(args)
	case "first":
		err = s.cmdFirst(args)
	case "last":
		err = s.cmdLast(args)
	case "nth":
		err = s.cmdNth(args)
	case "collect":
		err = s.cmdCollect()
	case "drop":
		s.cmdDrop()
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return true
	default:
		err = fmt.Errorf("unknown command %q - type 'help'", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "err: %v\n", err)
	}
	return false
}

// setCur - every stream the shell holds is wrapped in Inspect, so 'show' and 'next' always
// work on it. Trace mode inserts a logging wrapper under the inspector.
func (s *shell) setCur(it stream.Uno[int64], label string) {
	if s.cfg.Trace {
		it = stream.Trace(it, s.logger, label)
	}
	s.cur = stream.Inspect(it, s.cfg.Preview)
}

func (s *shell) need() (*stream.Inspected[int64], error) {
	if s.cur == nil {
		return nil, errors.New("no current stream - try 'range', 'vals', 'file' or 'rand'")
	}
	return s.cur, nil
}

func (s *shell) pred(name string) (func(int64) bool, error) {
	p, ok := predicates[name]
	if !ok {
		return nil, fmt.Errorf("unknown predicate %q - have: even odd pos neg zero nonzero", name)
	}
	return p, nil
}

func parseInt(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

// ---- sources ----

func (s *shell) cmdRange(args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return errors.New("usage: range FROM TO [STEP]")
	}
	from, err := parseInt(args[0])
	if err != nil {
		return err
	}
	to, err := parseInt(args[1])
	if err != nil {
		return err
	}
	if len(args) == 3 {
		step, err := parseInt(args[2])
		if err != nil {
			return err
		}
		s.setCur(stream.StepRange(from, to, step), "range")
		return nil
	}
	s.setCur(stream.Range(from, to), "range")
	return nil
}

func (s *shell) cmdVals(args []string) error {
	vals := make([]int64, len(args))
	for i, a := range args {
		v, err := parseInt(a)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	s.setCur(stream.Array(vals), "vals")
	return nil
}

func (s *shell) cmdFile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: file PATH")
	}
	in, err := afero.ReadFile(s.fs, args[0])
	if err != nil {
		return err
	}
	fields := strings.Fields(string(in))
	vals := make([]int64, len(fields))
	for i, f := range fields {
		v, err := parseInt(f)
		if err != nil {
			return fmt.Errorf("%s: token %d: %w", args[0], i+1, err)
		}
		vals[i] = v
	}
	s.setCur(stream.Array(vals), "file")
	return nil
}

func (s *shell) cmdRand(args []string) error {
	if len(args) != 1 && len(args) != 2 {
		return errors.New("usage: rand N [MAX]")
	}
	n, err := parseInt(args[0])
	if err != nil {
		return err
	}
	limit := int64(100)
	if len(args) == 2 {
		if limit, err = parseInt(args[1]); err != nil {
			return err
		}
	}
	if limit <= 0 {
		return errors.New("MAX must be positive")
	}
	s.setCur(stream.GenerateN(func() (int64, error) {
		return rand.Int63n(limit), nil
	}, int(n)), "rand")
	return nil
}

// ---- wrappers ----

func (s *shell) cmdFilter(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: filter PRED")
	}
	p, err := s.pred(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Filter[int64](cur, p), "filter")
	return nil
}

func (s *shell) cmdUnique() error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Unique[int64](cur), "unique")
	return nil
}

func (s *shell) cmdCompact() error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Compact[int64](cur), "compact")
	return nil
}

func (s *shell) cmdCycle(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: cycle N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Cycle[int64](cur, n), "cycle")
	return nil
}

func (s *shell) cmdHead(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: head N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Head[int64](cur, n), "head")
	return nil
}

func (s *shell) cmdTail(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tail N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Tail[int64](cur, n), "tail")
	return nil
}

func (s *shell) cmdPrepend(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: prepend V")
	}
	v, err := parseInt(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Prepend(v, stream.Uno[int64](cur)), "prepend")
	return nil
}

func (s *shell) cmdAppend(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: append V")
	}
	v, err := parseInt(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	s.setCur(stream.Append(stream.Uno[int64](cur), v), "append")
	return nil
}

func (s *shell) cmdSplit(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: split PRED")
	}
	p, err := s.pred(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	matched, rest := stream.Partition[int64](cur, p)
	s.slots = []stream.Uno[int64]{matched, rest}
	s.cur = nil
	fmt.Fprintf(s.out, "2 slots: %s first\n", args[0])
	return nil
}

func (s *shell) cmdJoin() error {
	if len(s.slots) == 0 {
		return errors.New("nothing to join - 'split' first")
	}
	s.setCur(stream.RoundRobin(s.slots...), "join")
	s.slots = nil
	return nil
}

// ---- consumers ----

func (s *shell) cmdNext(args []string) error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	n := 1
	switch len(args) {
	case 0:
	case 1:
		if n, err = strconv.Atoi(args[0]); err != nil {
			return err
		}
	default:
		return errors.New("usage: next [N]")
	}
	for i := 0; i < n; i++ {
		v, err := cur.Next()
		if errors.Is(err, stream.ErrIteratorExhausted) {
			fmt.Fprintln(s.out, "(exhausted)")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, v)
	}
	return nil
}

func (s *shell) cmdShow() error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, cur.String())
	return nil
}

func (s *shell) cmdCount() error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	cnt, err := stream.Count[int64](cur)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, cnt)
	return nil
}

func (s *shell) cmdQuantify(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: quantify PRED")
	}
	p, err := s.pred(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	cnt, err := stream.Quantify[int64](cur, p)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, cnt)
	return nil
}

func (s *shell) cmdFirst(args []string) error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	var v int64
	switch len(args) {
	case 0:
		v, err = stream.First[int64](cur)
	case 1:
		var p func(int64) bool
		if p, err = s.pred(args[0]); err != nil {
			return err
		}
		v, err = stream.FirstTrue[int64](cur, p)
	default:
		return errors.New("usage: first [PRED]")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v)
	return nil
}

func (s *shell) cmdLast(args []string) error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	var v int64
	switch len(args) {
	case 0:
		v, err = stream.Last[int64](cur)
	case 1:
		var p func(int64) bool
		if p, err = s.pred(args[0]); err != nil {
			return err
		}
		v, err = stream.LastTrue[int64](cur, p)
	default:
		return errors.New("usage: last [PRED]")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v)
	return nil
}

func (s *shell) cmdNth(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: nth N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	cur, err := s.need()
	if err != nil {
		return err
	}
	v, err := stream.Nth[int64](cur, n)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v)
	return nil
}

func (s *shell) cmdCollect() error {
	cur, err := s.need()
	if err != nil {
		return err
	}
	arr, err := stream.ToArray[int64](cur)
	if err != nil {
		return err
	}
	if len(arr) == 0 {
		fmt.Fprintln(s.out, "(empty)")
		return nil
	}
	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = strconv.FormatInt(v, 10)
	}
	fmt.Fprintln(s.out, strings.Join(parts, " "))
	return nil
}

func (s *shell) cmdDrop() {
	if s.cur != nil {
		s.cur.Close()
		s.cur = nil
	}
	for _, slot := range s.slots {
		slot.Close()
	}
	s.slots = nil
}
