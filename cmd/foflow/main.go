package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"foflow/common"
	"foflow/config"
	"foflow/convert"
	"foflow/misc"
	"foflow/state"
)

const (
	layoutHelp = `
SOURCE:
    path to XSL-FO file to process

DESTINATION:
    existing directory - output file name is derived from SOURCE and format
    anything else - output file name
    if absent - STDOUT
`
	elementsHelp = `
SOURCE:
    path to XSL-FO file to process

DESTINATION:
    file name to write dump to, if absent - STDOUT
`
	dumpConfigHelp = `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`
)

func helpTemplate(extra string) string {
	return cli.CommandHelpTemplate + extra
}

// initializeAppContext loads configuration and sets up logging and the debug
// report once the command line is parsed. Without arguments (help, version)
// there is nothing to set up.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}

	var err error
	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// the report keeps the effective configuration next to the source
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(configFile), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	switch {
	case env.Rpt != nil:
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	case len(configFile) == 0:
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// destroyAppContext closes the logger and the debug report. From here on
// errors go to stderr.
func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	if env.Cfg != nil {
		err = multierr.Append(err, removeEmptyPanicLog(&env.Cfg.Logging))
	}
	return err
}

// removeEmptyPanicLog drops the crash output file the file logger set up when
// nothing crashed.
func removeEmptyPanicLog(conf *config.LoggingConfig) error {
	if len(conf.FileLogger.Destination) == 0 {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	fname := conf.PanicLogName()
	if fi, err := os.Stat(fname); err != nil || fi.Size() > 0 {
		return nil
	}
	if err := os.Remove(fname); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, err)
	}
	return nil
}

// errWasHandled is set once a failed action has been logged, so main does not
// repeat the error on stderr.
var errWasHandled bool

// exitErrHandler runs before destroyAppContext, while the logger is still
// open. Actions return plain errors rather than cli.Exit.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:         "layout",
			Usage:        "Breaks FO document into lines and pages and outputs the area tree",
			OnUsageError: usageErrorHandler,
			Action:       convert.Run,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: common.OutputFmtText.String(),
					Usage: "area tree output `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"},
			},
			ArgsUsage:          "SOURCE [DESTINATION]",
			CustomHelpTemplate: helpTemplate(layoutHelp),
		},
		{
			Name:               "elements",
			Usage:              "Dumps element lists, line breaks and page breaks of FO document",
			OnUsageError:       usageErrorHandler,
			Action:             convert.Elements,
			ArgsUsage:          "SOURCE [DESTINATION]",
			CustomHelpTemplate: helpTemplate(elementsHelp),
		},
		{
			Name:  "dumpconfig",
			Usage: "Dumps either default or actual configuration (YAML)",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
			},
			OnUsageError:       usageErrorHandler,
			Action:             outputConfiguration,
			ArgsUsage:          "DESTINATION",
			CustomHelpTemplate: helpTemplate(dumpConfigHelp),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "lays out XSL-FO documents into paginated area trees",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: commands(),
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		if !errWasHandled {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	kind, data := "actual", []byte(nil)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
		return err
	}
	env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", fname))
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write configuration to '%s': %w", fname, err)
	}
	return nil
}
