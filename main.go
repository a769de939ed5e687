package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/week8/rpnserver/config"
	"github.com/week8/rpnserver/router"
	"github.com/week8/rpnserver/server"
	"github.com/week8/rpnserver/testrunner"
)

// Rev holds binary revision string
// Set manually at build time using:
//
//	go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

// Version holds the release version, also set with -ldflags.
var Version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// flushLogs writes out buffered log lines before the process exits.
var flushLogs = glog.Flush

// execute runs the root command and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	defer flushLogs()

	exitCode := 0
	cmd := newRootCmd(&exitCode)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpnserver [test-target]",
		Short: "Random number and RPN calculator HTTP server",
		Long: "Serves the random number and RPN calculator APIs until interrupted.\n" +
			"With a test target, starts the server, runs `make <test-target>` against it and exits with its status.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// glog reads its flags from the standard flag set.
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				fmt.Fprintln(cmd.ErrOrStderr(), "invalid arguments")
				*exitCode = 1
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("configuration could not be loaded or did not pass validation: %v", err)
			}

			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			code, err := serve(cmd.Context(), cfg, target, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("rpnserver failed: %v", err)
			}
			*exitCode = code
			return nil
		},
	}

	cmd.Flags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

const configFileName = "rpnserver"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return config.New(v)
}

// serve runs the servers until a stop signal arrives. When target is set it instead waits for the
// listeners to bind, runs the test target and returns the target's exit code.
func serve(ctx context.Context, cfg *config.Configuration, target string, stdout, stderr io.Writer) (int, error) {
	r, err := router.New(cfg)
	if err != nil {
		return 1, err
	}

	handler := router.NoCache{Handler: router.SupportCORS(r)}
	admin := router.Admin(Version, Rev)

	if target == "" {
		return 0, server.Listen(cfg, handler, admin, r.MetricsEngine, nil)
	}

	listening := make(chan struct{})
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(cfg, handler, admin, r.MetricsEngine, listening)
	}()

	select {
	case <-listening:
	case err := <-listenErr:
		return 1, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	runner := testrunner.NewRunner(cfg.TestRunner.Command, stdout, stderr)
	return runner.Run(ctx, target)
}
