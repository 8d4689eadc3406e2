package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clivetmushipe088/grade-book-app/internal/application/gradebook"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
	"github.com/clivetmushipe088/grade-book-app/internal/infrastructure/messaging"
	"github.com/clivetmushipe088/grade-book-app/internal/interface/cli/script"
	"github.com/clivetmushipe088/grade-book-app/pkg/logger"
)

// Exit codes.
const (
	ExitStepFailed  = 2
	ExitInvalidFile = 3
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "run <script.toml>",
		Short: "Run a script of grade book operations",
		Long: `Run the steps of a TOML script against a fresh in-memory grade book.

Each [[step]] names one operation with op = "...":
  add_student   email, names
  add_course    name, credits, [trimester], [max_score]
  register      email, course, grade
  recalculate
  ranking
  search        course, min, max
  transcript    email
  courses       email
  list

A failing step is reported and the run continues. With --strict the
run stops at the first failure and exits with a non-zero status.

Examples:
  gradebook run term.toml
  gradebook run term.toml --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return &ExitError{Code: ExitInvalidFile, Err: err}
			}

			policy, err := opts.cfg.Policy()
			if err != nil {
				return err
			}

			log := opts.newLogger(cmd.ErrOrStderr())
			out := opts.newPresenter(cmd.OutOrStdout())

			bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
				Logger:        log,
				EnableMetrics: true,
			})
			defer bus.Close()

			book := gradebook.New(
				gradebook.WithPolicy(policy),
				gradebook.WithPublisher(bus),
			)

			runner := script.NewRunner(book, out,
				script.WithStrict(strict || opts.cfg.GradeBook.Strict),
				script.WithLogger(log),
			)
			if err := runner.Observe(bus); err != nil {
				return err
			}

			res, err := runner.Run(cmd.Context(), s)
			metrics := bus.Metrics().Snapshot()
			log.Debug("event bus",
				logger.Int("published", int(metrics.TotalPublished)),
				logger.Int("handler_successes", int(metrics.HandlerSuccesses)),
				logger.Int("handler_failures", int(metrics.HandlerFailures)),
				logger.Duration("handler_time", metrics.HandlerDuration),
			)
			if err != nil {
				return &ExitError{Code: ExitStepFailed, Err: err}
			}

			if !res.OK() {
				out.Warning("%d of %d steps failed", res.Failed, res.Steps)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "stop on the first failing step")

	return cmd
}

func newPoliciesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List GPA policies",
		Long: `List the GPA policies the grade book can use. The active one is marked.

  percentage   grade as a percentage of the course max score, mapped to
               4/3/2/1/0 points at 90/80/70/60, weighted by credits
  raw_average  plain mean of raw grades`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := opts.cfg.Policy()
			if err != nil {
				return err
			}
			opts.newPresenter(cmd.OutOrStdout()).Policies(student.PolicyNames(), policy.Name())
			return nil
		},
	}
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", opts.cfg.App.Name, opts.cfg.App.Version)
			return nil
		},
	}
}
