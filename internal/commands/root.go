package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gastocerto/internal/app"
	"gastocerto/internal/config"
	"gastocerto/internal/logger"
	"gastocerto/internal/session"
)

// deps is what every subcommand needs. It is filled in before a command
// runs so tests can point it at a temporary database and session file.
type deps struct {
	store session.Store
	open  func(ctx context.Context) (*app.App, error)

	household string
	user      string
	verbose   bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	d := &deps{}
	rootCmd := newRootCommand(d)
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if d.verbose {
			logger.Init(cfg.Env)
		} else {
			logger.Init("quiet")
		}

		path := cfg.SessionFile
		if path == "" {
			path = session.DefaultPath()
		}
		d.store = session.NewFileStore(path)
		d.open = func(ctx context.Context) (*app.App, error) {
			return app.New(ctx, cfg)
		}
		return nil
	}
	return rootCmd
}

func newRootCommand(d *deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gastocerto",
		Short: "Shared household ledger",
		Long: `GastoCerto keeps a household's incomes and expenses in one ledger.
Entries that look like ones already recorded are held for confirmation,
purchases can be split into monthly installments and bank statements can
be imported line by line.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&d.household, "household", "", "household id (overrides the saved session)")
	rootCmd.PersistentFlags().StringVar(&d.user, "user", "", "who is recording (overrides the saved session)")
	rootCmd.PersistentFlags().BoolVarP(&d.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(newHouseholdCommand(d))
	rootCmd.AddCommand(newAddCommand(d))
	rootCmd.AddCommand(newScanCommand(d))
	rootCmd.AddCommand(newImportCommand(d))
	rootCmd.AddCommand(newListCommand(d))
	rootCmd.AddCommand(newSummaryCommand(d))
	rootCmd.AddCommand(newWatchCommand(d))
	rootCmd.AddCommand(newDeleteCommand(d))
	rootCmd.AddCommand(newDescriptionsCommand(d))

	return rootCmd
}

// session returns the saved session with any flag overrides applied.
func (d *deps) session() (session.Session, error) {
	sess, err := d.store.Load()
	if err != nil {
		return session.Session{}, err
	}
	if d.household != "" {
		sess.HouseholdID = d.household
	}
	if d.user != "" {
		sess.UserID = d.user
	}
	return sess, nil
}

// withApp runs fn against an opened application for the active household.
func (d *deps) withApp(cmd *cobra.Command, fn func(a *app.App, sess session.Session) error) error {
	sess, err := d.session()
	if err != nil {
		return err
	}
	if err := sess.Require(); err != nil {
		return fmt.Errorf("%w: run 'gastocerto household new' or 'gastocerto household join <id>'", err)
	}

	a, err := d.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a, sess)
}
