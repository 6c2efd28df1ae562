package main

import (
	"fmt"
	"time"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/job-runner/internal/client"
	"github.com/kubev2v/job-runner/internal/config"
	"github.com/kubev2v/job-runner/internal/server"
)

const clientTokenTTL = 5 * time.Minute

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "job-runner",
		Short:         "Run periodic jobs on a single worker and control them over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(config.EnvPrefix),
		),
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCommand(),
		newJobsCommand(),
		newNotifyCommand(),
		newRunsCommand(),
		newShutdownCommand(),
	)

	return root
}

// loadConfig reads the configuration and installs the global logger.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	return cfg, nil
}

// newClient builds a control API client, signing a short lived token when auth is enabled.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var token string
	if cfg.Auth.Enabled {
		token, err = server.IssueToken([]byte(cfg.Auth.Secret), "job-runner-cli", clientTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to sign token: %w", err)
		}
	}

	return client.New(cfg.Server.Address, token), nil
}
