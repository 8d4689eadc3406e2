// Package cli wires configuration, logging and the grade book into a cobra command tree.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clivetmushipe088/grade-book-app/config"
	"github.com/clivetmushipe088/grade-book-app/internal/interface/cli/presenter"
	"github.com/clivetmushipe088/grade-book-app/pkg/logger"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	policy     string
	noColor    bool

	cfg *config.Config
}

// NewRootCmd builds the command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "gradebook",
		Short: "In-memory student grade book",
		Long: `gradebook keeps students, courses and grades in memory and computes
credit-weighted GPAs, rankings, grade searches and transcripts.

Operations are read from a TOML script so a whole term can be replayed
in one run.

Examples:
  gradebook run term.toml                     # Run a script, report failures and continue
  gradebook run term.toml --strict            # Stop on the first failing step
  gradebook run term.toml --policy raw_average
  gradebook policies                          # List GPA policies`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	flags.StringVar(&opts.policy, "policy", "", "GPA policy: percentage or raw_average")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newRunCmd(opts),
		newPoliciesCmd(opts),
		newVersionCmd(opts),
	)

	return root
}

// load reads the config file and environment, then applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Observability.LogLevel = o.logLevel
	}
	if o.policy != "" {
		cfg.GradeBook.Policy = o.policy
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Output.NoColor = o.noColor
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	return nil
}

func (o *rootOptions) newLogger(w io.Writer) *logger.Logger {
	return logger.New(logger.Options{
		Output: w,
		Level:  logger.ParseLevel(o.cfg.Observability.LogLevel),
	}).With(
		logger.String("app", o.cfg.App.Name),
		logger.String("env", string(o.cfg.App.Environment)),
	)
}

func (o *rootOptions) newPresenter(w io.Writer) *presenter.Presenter {
	return presenter.New(w, o.cfg.Output.NoColor)
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		presenter.New(os.Stderr, noColorEnv()).Failure(err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// ExitError carries a specific exit code out of a command.
// Its message is the message of Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func noColorEnv() bool {
	return os.Getenv("NO_COLOR") != ""
}
