// HireHub manages candidate records stored in a SQL table: interactive
// menus for adding, editing, filtering, sorting and exporting them, plus
// non-interactive subcommands for the same work.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/hirehub/config"
	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/migrations"
	"github.com/nonsonwune/hirehub/nlquery"
	"github.com/nonsonwune/hirehub/store"
)

const (
	exitOK          = 0
	exitFatal       = 1
	exitInterrupted = 130
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newCLI(os.Stdin, os.Stdout)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
		c.interrupt()
	}()

	os.Exit(c.execute(ctx, os.Args[1:]))
}

func newCLI(in io.Reader, out io.Writer) *cli {
	return &cli{con: newConsole(in, out), exit: os.Exit}
}

// execute runs one invocation and returns the process exit code.
func (c *cli) execute(ctx context.Context, args []string) int {
	defer c.close()

	out := c.con.out
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\nInterrupted. Exiting.")
			return exitInterrupted
		}
		logger.Log.Error("command failed", "error", err)
		color.New(color.FgRed).Fprintln(out, "Fatal error occurred.")
		return exitFatal
	}
	return exitOK
}

// cli owns the state shared by the root command and its subcommands.
type cli struct {
	con *console
	app *app
	// factory replaces the Gemini model factory when set.
	factory nlquery.ModelFactory
	exit    func(int)

	mu     sync.Mutex
	closed bool
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hirehub",
		Short: "HireHub candidate database",
		Long:  "HireHub manages a table of job candidates: add, edit, delete, filter, sort, export and chart them.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return c.boot(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.app.mainMenu(cmd.Context())
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		c.filterCommand(),
		c.insightsCommand(),
		c.importCommand(),
		c.askCommand(),
	)
	return root
}

// boot loads configuration, connects and checks the table. Any failure
// here is fatal.
func (c *cli) boot(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, os.Stderr)

	st, err := store.Open(ctx, cfg.Driver, cfg.DSN(), cfg.Table)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	logger.Log.Info("connected to database", "driver", cfg.Driver, "dsn", cfg.Redacted(), "table", st.Table())

	if err := migrations.VerifySchema(ctx, st.DB(), st.Table()); err != nil {
		st.Close()
		return err
	}

	a := newApp(cfg, st, c.con)
	if c.factory != nil {
		a.factory = c.factory
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		st.Close()
		return context.Canceled
	}
	c.app = a
	return nil
}

// close releases the database connection. It is safe to call more than once
// and from the signal handler.
func (c *cli) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.app == nil {
		return
	}
	if err := c.app.store.Close(); err != nil {
		logger.Log.Warn("error closing database", "error", err)
	}
}

// interrupt handles SIGINT and SIGTERM while a prompt may be blocked on
// input: the connection is closed before the process exits.
func (c *cli) interrupt() {
	fmt.Fprintln(c.con.out, "\nInterrupted. Exiting.")
	c.close()
	c.exit(exitInterrupted)
}
