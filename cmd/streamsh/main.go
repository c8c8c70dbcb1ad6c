package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/erigontech/erigon-lib/log/v3"
	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/stream"
)

var (
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML file with session defaults (preview, prompt, trace)",
	}
	PreviewFlag = cli.IntFlag{
		Name:  "preview",
		Usage: "Max elements 'show' prints before eliding the middle of the stream",
		Value: stream.DefaultPreviewLimit,
	}
	TraceFlag = cli.BoolFlag{
		Name:  "trace",
		Usage: "Log every HasNext/Next call on the current stream",
	}
	VerbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level: crit, error, warn, info, debug, trace, or a number",
		Value: "info",
	}
	ScriptFlag = cli.StringFlag{
		Name:  "script",
		Usage: "Read commands from a file instead of stdin",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "streamsh"
	app.Usage = "Interactive stream inspector: build int64 streams and step through them"
	app.UsageText = app.Name + ` [flags]`

	app.Flags = []cli.Flag{
		&ConfigFlag,
		&PreviewFlag,
		&TraceFlag,
		&VerbosityFlag,
		&ScriptFlag,
	}

	app.Action = runShell

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runShell(cliCtx *cli.Context) error {
	logger, err := setupLogger(cliCtx.String(VerbosityFlag.Name))
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()

	cfg, err := loadConfig(fs, cliCtx)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	if path := cliCtx.String(ScriptFlag.Name); path != "" {
		f, err := fs.Open(path)
		if err != nil {
			return fmt.Errorf("can't open script: %w", err)
		}
		defer f.Close()
		in = f
		interactive = false
	}

	sh := newShell(cfg, fs, logger, os.Stdout)
	sh.interactive = interactive
	return sh.run(in)
}

func setupLogger(verbosity string) (log.Logger, error) {
	lvl, err := tryGetLogLevel(verbosity)
	if err != nil {
		return nil, fmt.Errorf("invalid verbosity: %s", verbosity)
	}
	logger := log.Root()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
	return logger, nil
}

func tryGetLogLevel(s string) (log.Lvl, error) {
	lvl, err := log.LvlFromString(s)
	if err != nil {
		l, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return log.Lvl(l), nil
	}
	return lvl, nil
}

// loadConfig - defaults, then the TOML file, then flags. A flag set on the command line wins
// over the file.
func loadConfig(fs afero.Fs, cliCtx *cli.Context) (sessionConfig, error) {
	cfg := defaultConfig()

	if path := cliCtx.String(ConfigFlag.Name); path != "" {
		in, err := afero.ReadFile(fs, path)
		if err != nil {
			return cfg, fmt.Errorf("can't read config: %w", err)
		}
		if err := toml.Unmarshal(in, &cfg); err != nil {
			return cfg, fmt.Errorf("can't parse config: %w", err)
		}
	}

	if cliCtx.IsSet(PreviewFlag.Name) {
		cfg.Preview = cliCtx.Int(PreviewFlag.Name)
	}
	if cliCtx.IsSet(TraceFlag.Name) {
		cfg.Trace = cliCtx.Bool(TraceFlag.Name)
	}
	return cfg, nil
}
