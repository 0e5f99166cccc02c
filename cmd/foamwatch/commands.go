package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/five82/foamwatch/internal/app"
	"github.com/five82/foamwatch/internal/config"
)

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"fields":      config.KeyFields,
	"window":      config.KeyWindow,
	"reset-every": config.KeyResetEvery,
	"poll":        config.KeyPollInterval,
	"png":         config.KeyPNGPath,
	"log-level":   config.KeyLogLevel,
	"app-log":     config.KeyAppLog,
}

type rootFlags struct {
	configPath string
	prefsPath  string
	headless   bool
	noWatch    bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "foamwatch [log]",
		Short:         "Live residual monitor for CFD solver logs.",
		Long:          `foamwatch tails a solver log, extracts residuals, Courant numbers and peak temperature per time step, and charts them as the run progresses.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, flags, args)
			if err != nil {
				return err
			}
			headless := flags.headless || !stdoutIsTerminal()
			return app.Run(cmd.Context(), app.Options{
				Config:    cfg,
				PrefsPath: flags.prefsPath,
				Headless:  headless,
				Out:       cmd.OutOrStdout(),
				Color:     !flags.noColor && stdoutIsTerminal(),
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/foamwatch/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "UI preferences file (default ~/.config/foamwatch/prefs.toml)")
	pf.StringSlice("fields", nil, "residual fields to monitor (default Ux,Uy,Uz,p)")
	pf.Int("window", 0, "number of latest time steps to chart (0 = all)")
	pf.Int("reset-every", 0, "start a new monitoring cycle after this many polls (0 = never)")
	pf.Duration("poll", 0, "interval between log reads")
	pf.String("png", "", "also write charts to this PNG file")
	pf.String("log-level", "", "application log level (debug, info, warn, error)")
	pf.String("app-log", "", "application log file")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	root.Flags().BoolVar(&flags.headless, "headless", false, "print status lines instead of the interactive UI")
	root.Flags().BoolVar(&flags.noWatch, "no-watch", false, "wait out retry delays without file change notifications")

	for name, key := range flagKeys {
		_ = v.BindPFlag(key, pf.Lookup(name))
	}

	root.SetVersionTemplate(fmt.Sprintf("foamwatch %s (commit %s, built %s)\n", version, commit, date))
	root.AddCommand(newDumpCmd(v, flags), newVersionCmd())
	return root
}

func newDumpCmd(v *viper.Viper, flags *rootFlags) *cobra.Command {
	var (
		asJSON  bool
		initial bool
		rows    int
	)
	cmd := &cobra.Command{
		Use:   "dump [log]",
		Short: "Print the parsed time steps of a log once and exit.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, flags, args)
			if err != nil {
				return err
			}
			return app.Dump(cmd.OutOrStdout(), cfg, app.DumpOptions{
				JSON:    asJSON,
				Initial: initial,
				Rows:    rows,
				Color:   !flags.noColor && stdoutIsTerminal(),
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	cmd.Flags().BoolVar(&initial, "initial", false, "show initial instead of final residuals")
	cmd.Flags().IntVar(&rows, "rows", 0, "limit the table to the latest N steps (0 = all)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information.",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "foamwatch %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}

// loadConfig layers defaults, the config file, environment and flags.
func loadConfig(v *viper.Viper, flags *rootFlags, args []string) (config.Config, error) {
	config.SetDefaults(v)
	if len(args) == 1 {
		v.Set(config.KeyLogPath, args[0])
	}
	if flags.noWatch {
		v.Set(config.KeyWatch, false)
	}
	return config.Load(v, flags.configPath)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
