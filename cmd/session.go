package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/giantswarm/kshell/internal/command"
	"github.com/giantswarm/kshell/internal/completion"
	"github.com/giantswarm/kshell/internal/config"
	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/k8s"
	"github.com/giantswarm/kshell/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// sessionIO selects where a session reports errors and asks questions.
type sessionIO struct {
	errOut  io.Writer
	confirm env.ConfirmFunc
}

// session is the wiring shared by the shell and the MCP server.
type session struct {
	env        *env.Env
	dispatcher *command.Dispatcher
	completer  *completion.Completer
	provider   *instrumentation.Provider
	logger     *slog.Logger
}

func newSession(ctx context.Context, o *rootOptions, sio sessionIO) (*session, error) {
	logger, err := logging.NewLogger(os.Stderr, o.logLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	paths, err := config.ResolvePaths(o.configDir)
	if err != nil {
		return nil, err
	}

	kubeConfig, err := k8s.LoadKubeConfig(k8s.KubeconfigPaths(paths.ConfigDir))
	if err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(paths.Settings)
	if err != nil {
		_, _ = fmt.Fprintf(sio.errOut, "warning: %v, using default settings\n", err)
	}

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	provider, err := instrumentation.NewProvider(ctx, instrumentationConfig)
	if err != nil {
		logger.Warn("instrumentation disabled", logging.Err(err))
		provider = nil
	}

	e := env.New(kubeConfig, k8s.NewRESTClientFactory(kubeConfig, logger), settings, paths,
		env.WithErrorWriter(sio.errOut),
		env.WithConfirm(sio.confirm),
		env.WithMetrics(provider.Metrics()),
		env.WithLogger(logger),
	)

	if o.context != "" {
		if err := e.SetContext(o.context); err != nil {
			return nil, err
		}
	}
	if o.namespace != "" {
		if err := e.SetNamespace(o.namespace); err != nil {
			return nil, err
		}
	}

	var stats prometheus.Gatherer
	if provider != nil {
		stats = provider
	}
	d := command.NewDispatcher(command.Default(), e, stats)

	logger.Debug("session ready",
		logging.Context(e.Context()),
		logging.Namespace(e.Namespace()),
		logging.Path(paths.ConfigDir))

	return &session{
		env:        e,
		dispatcher: d,
		completer:  completion.New(d),
		provider:   provider,
		logger:     logger,
	}, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.provider.Shutdown(ctx); err != nil {
		s.logger.Debug("instrumentation shutdown", logging.Err(err))
	}
}
