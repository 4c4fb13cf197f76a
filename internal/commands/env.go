package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/config"
	"github.com/fincast-dev/fincast/internal/logging"
	"github.com/fincast-dev/fincast/internal/plan"
	"github.com/fincast-dev/fincast/internal/runlog"
	"github.com/fincast-dev/fincast/internal/scenario"
	"github.com/fincast-dev/fincast/internal/store"
)

// env is the configured runtime shared by subcommands.
type env struct {
	dir     string
	cfg     *config.Config
	log     *logrus.Logger
	store   store.Store
	svc     *scenario.Service
	project bool // a config file was found
}

type envOptions struct {
	memory bool // keep scenarios in memory only
}

func setup(g *globalFlags, stderr io.Writer, opts envOptions) (*env, error) {
	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfgPath := g.config
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, config.FileName)
	}
	_, statErr := os.Stat(cfgPath)
	project := statErr == nil

	cfg, err := config.LoadOrDefault(cfgPath, time.Now().Year())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(dir)
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if cfg.Defaults.StartYear == 0 {
		cfg.Defaults.StartYear = time.Now().Year()
	}
	if opts.memory {
		cfg.Store.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)

	st, err := store.Open(cfg.Store, dir)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	log.WithField(logging.FieldBackend, cfg.Store.Backend).Debug("store opened")

	svc := scenario.NewService(st, log, cfg.PlanOptions())
	if project {
		svc.WithHistory(runlog.New(dir))
	}

	return &env{dir: dir, cfg: cfg, log: log, store: st, svc: svc, project: project}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// resolution parses flag, falling back to the configured default and then yearly.
func (e *env) resolution(flag string) (aggregate.Resolution, error) {
	if flag != "" {
		return aggregate.ParseResolution(flag)
	}
	if e.cfg.Defaults.Resolution != "" {
		return aggregate.ParseResolution(e.cfg.Defaults.Resolution)
	}
	return aggregate.Yearly, nil
}

// PrintError writes err for a terminal user. Validation errors get one line
// per field.
func PrintError(w io.Writer, err error) {
	var verrs plan.ValidationErrors
	if errors.As(err, &verrs) {
		prefix := strings.TrimSuffix(err.Error(), verrs.Error())
		fmt.Fprintf(w, "Error: %sinvalid plan\n", prefix)
		for _, v := range verrs {
			fmt.Fprintf(w, "  %s\n", v.Error())
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
