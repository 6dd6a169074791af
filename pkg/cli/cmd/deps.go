package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hpcops/slurmbridge/internal/config"
	"github.com/hpcops/slurmbridge/pkg/cyclecloud"
	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/shell"
	"github.com/hpcops/slurmbridge/pkg/slurm"
	"golang.org/x/term"
)

// deps bundles the collaborators a subcommand needs, constructed once per
// invocation. Nothing here is global: the control-plane client is built
// explicitly and handed to whoever needs it.
type deps struct {
	cfg    *config.Config
	logger log.Logger
	api    *cyclecloud.Client
	slurm  *slurm.Client
}

// setup loads configuration, applies connection overrides, builds the logger
// for the given per-command logfile, and constructs the clients.
func setup(logfile string) (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg)
	if usernameOverride != "" {
		password, err := promptPassword(usernameOverride)
		if err != nil {
			return nil, err
		}
		cfg.Connection.Password = password
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, logfile)
	if err != nil {
		return nil, err
	}

	var invoker shell.Invoker = shell.NewExecInvoker(shell.WithLogger(logger))
	if cfg.Chaos.Enabled {
		seed := cfg.Chaos.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		invoker = shell.NewChaosInvoker(invoker, cfg.Chaos.Probability, logger, seed)
	}

	clientOptions := []cyclecloud.ClientOption{
		cyclecloud.WithCredentials(cfg.Connection.Username, cfg.Connection.Password),
		cyclecloud.WithTimeout(cfg.Connection.Timeout),
		cyclecloud.WithLogger(logger),
	}
	if cfg.Connection.Insecure {
		clientOptions = append(clientOptions, cyclecloud.WithInsecureTLS())
	}

	return &deps{
		cfg:    cfg,
		logger: logger,
		api:    cyclecloud.NewClient(cfg.Connection.WebServer, cfg.Connection.Cluster, clientOptions...),
		slurm:  slurm.NewClient(invoker, logger),
	}, nil
}

// applyOverrides layers the connection flags over the loaded configuration.
func applyOverrides(cfg *config.Config) {
	if webServerOverride != "" {
		cfg.Connection.WebServer = webServerOverride
	}
	if clusterOverride != "" {
		cfg.Connection.Cluster = clusterOverride
	}
	if usernameOverride != "" {
		cfg.Connection.Username = usernameOverride
	}
}

// newLogger builds the command logger: everything to a rotating per-command
// logfile, plus stderr so artifact output on stdout stays clean.
func newLogger(cfg *config.Config, logfile string) (log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = log.DebugLevel
	}

	var formatter log.Formatter
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		formatter = &log.JSONFormatter{}
	case "text", "":
		formatter = log.NewTextFormatter()
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Log.Format)
	}

	options := []log.Option{
		log.WithLevel(level),
		log.WithFormatter(formatter),
		log.WithOutput(log.NewConsoleOutput(log.WithWriter(os.Stderr))),
	}
	if logfile != "" {
		options = append(options, log.WithOutput(
			log.NewFileOutput(filepath.Join(cfg.Log.Dir, logfile))))
	}
	return log.NewLogger(options...), nil
}

// promptPassword asks for the control-plane password on the terminal, the
// same way an interactive login would.
func promptPassword(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
