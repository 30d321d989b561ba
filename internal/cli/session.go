package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/report"
	"github.com/tram-tr/turing-machine/internal/store"
)

// Session prompts and the sentinel that ends a session.
const (
	promptInput    = "Enter input string or endinput: "
	promptMaxSteps = "Enter max steps: "
	endSentinel    = "endinput"
)

// SessionOptions holds flags for the session command.
type SessionOptions struct {
	*RootOptions
	OutDir   string
	Policy   string
	Database string // optional - persist every run when set
}

// SessionResult is the JSON payload of a finished session.
type SessionResult struct {
	Machine    string            `json:"machine"`
	OutputFile string            `json:"output_file"`
	Runs       []report.Document `json:"runs"`
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session <machine>",
		Short: "Trace inputs read from stdin",
		Long: `Trace a series of inputs against one machine.

For each input the session prompts for the string and then for the step
budget. Entering endinput, or closing stdin, ends the session. Every report
is printed and also written to <name>-output.txt in the output directory,
where <name> is the machine name without spaces. The file is truncated when
the session starts.

Examples:
  ntm session machines/zero.txt
  ntm session machines/zero.txt --out ./reports --db ./ntm.db
  printf '0\n10\n1\n10\nendinput\n' | ntm session machines/zero.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", ".", "directory for the output file")
	cmd.Flags().StringVar(&opts.Policy, "policy", engine.CountExpansions.String(), "budget policy (expansions|dead-ends)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to record runs in")

	return cmd
}

func runSession(opts *SessionOptions, machinePath string, cmd *cobra.Command) error {
	log := opts.logger()

	m, err := loadMachine(machinePath)
	if err != nil {
		return err
	}
	policy, err := engine.ParseBudgetPolicy(opts.Policy)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid policy", err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
	}

	outName := report.OutputFileName(m.Name)
	if strings.ContainsAny(outName, `/\`) || filepath.Base(outName) != outName {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("machine name %q cannot be used as an output file name", m.Name))
	}
	outPath := filepath.Join(opts.OutDir, outName)
	out, err := os.Create(outPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	defer out.Close()
	if err := report.WriteMachineHeader(out, m.Name); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output file", err)
	}
	log.Info("session started", "machine", m.Name, "output", outPath)

	ctx, stop := signalContext(cmd)
	defer stop()

	s := &session{
		opts:   opts,
		m:      m,
		eng:    engine.New(m, engine.WithBudgetPolicy(policy), engine.WithLogger(log)),
		st:     st,
		out:    out,
		stdout: cmd.OutOrStdout(),
		errw:   cmd.ErrOrStderr(),
		lines:  bufio.NewScanner(cmd.InOrStdin()),
	}
	s.prompts = s.stdout
	if opts.jsonOutput() {
		s.prompts = s.errw
	}

	runs, err := s.loop(ctx)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return WrapExitError(ExitCommandError, "failed to close output file", err)
	}
	log.Info("session finished", "machine", m.Name, "runs", len(runs))

	if opts.jsonOutput() {
		return opts.formatter(cmd).Success(SessionResult{
			Machine:    m.Name,
			OutputFile: outPath,
			Runs:       runs,
		})
	}
	return nil
}

// session is the state of one interactive loop.
type session struct {
	opts    *SessionOptions
	m       *machine.Machine
	eng     *engine.Engine
	st      *store.Store
	out     io.Writer
	stdout  io.Writer
	errw    io.Writer
	prompts io.Writer
	lines   *bufio.Scanner
}

// loop reads inputs until the sentinel or EOF and traces each one.
func (s *session) loop(ctx context.Context) ([]report.Document, error) {
	runs := []report.Document{}
	for {
		input, ok := s.ask(promptInput)
		if !ok || input == endSentinel {
			break
		}
		maxSteps, ok := s.askMaxSteps()
		if !ok {
			break
		}

		res, err := traceOne(ctx, s.eng, input, maxSteps)
		if err != nil {
			return nil, err
		}

		doc := report.NewDocument(s.m.Name, res)
		if s.st != nil {
			run, err := writeRun(ctx, s.st, s.opts.runIDs(), s.m, res)
			if err != nil {
				return nil, err
			}
			doc.RunID = run.ID
		}
		runs = append(runs, doc)

		if err := report.WriteEntry(s.out, res); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to write output file", err)
		}
		if !s.opts.jsonOutput() {
			fmt.Fprintf(s.stdout, "\nName of the machine: %s\nInitial input string: %s\n", s.m.Name, res.Input)
			if err := report.Write(s.stdout, res); err != nil {
				return nil, err
			}
			fmt.Fprintln(s.stdout)
		}
	}
	if err := s.lines.Err(); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return runs, nil
}

// ask prints prompt and reads one line. It returns false at EOF.
func (s *session) ask(prompt string) (string, bool) {
	fmt.Fprint(s.prompts, prompt)
	if !s.lines.Scan() {
		return "", false
	}
	return strings.TrimRight(s.lines.Text(), "\r"), true
}

// askMaxSteps prompts until it reads a positive integer or EOF.
func (s *session) askMaxSteps() (int, bool) {
	for {
		line, ok := s.ask(promptMaxSteps)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 {
			return n, true
		}
		fmt.Fprintf(s.errw, "Invalid max steps %q: enter a positive integer.\n", line)
	}
}
