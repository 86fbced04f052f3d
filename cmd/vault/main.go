// Package main provides the vault command-line interface: a virtual workspace of files
// and folders that can be edited, archived, pulled from GitHub and pushed back to it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: vault [flags] <command> [args]")

// globalFlags are accepted before the command name.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	dataDir    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	var g globalFlags
	flagSet := pflag.NewFlagSet("vault", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&g.configPath, "config", "", "path to config file (default: ~/.config/vault/config.json)")
	flagSet.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVar(&g.logFormat, "log-format", "", "log format: console or json")
	flagSet.StringVar(&g.dataDir, "data-dir", "", "directory holding the workspace slot")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printUsage(stderr, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return errUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Sync() }()

	ctx = logging.WithOperation(ctx, rest[0])
	a, err := newApp(ctx, cfg, stdin, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	err = cmd.run(ctx, a, rest[1:])
	if err != nil {
		logging.WithContext(ctx).Debug("command failed", zap.String("command", rest[0]), zap.Error(err))
	}
	return err
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(g globalFlags) (*config.Config, error) {
	loader := config.NewLoader()
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = loader.LoadFrom(g.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Logging.Format = g.logFormat
	}
	if g.dataDir != "" {
		cfg.Storage.DataDir = g.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "vault: a virtual workspace of files and folders.\n\nUsage:\n  vault [flags] <command> [args]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-32s %s\n", name+" "+commands[name].usage, commands[name].summary)
	}

	fmt.Fprintf(w, "\nFlags:\n%s", flagSet.FlagUsages())
}
