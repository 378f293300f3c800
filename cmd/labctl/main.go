// Command labctl drives a methods-lab server from a terminal: start and steer
// sessions as the presenter, follow the projector board, or answer as a
// student.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/pkg/client"
	"github.com/CLDWare/methods-lab/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "labctl",
		Short:         "Command line client for the Methods Lab classroom server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	f := root.PersistentFlags()
	f.String("server", "http://localhost:8080", "Base URL of the methods-lab server")
	f.String("api-key", "", "Public api key of the server")
	f.String("auth-token", "", "Presenter auth_session_token when login is enabled")
	f.Duration("poll-interval", 5*time.Second, "How often watchers re-fetch to catch missed updates")
	f.String("state-file", defaultStateFile(), "File remembering which groups this device answered")
	f.StringP("lang", "l", "en", "Language of labels (en, nl)")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(linkCmd(), sessionCmd(), watchCmd(), submitCmd(), scenariosCmd())
	return root
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "labctl-state.json"
	}
	return dir + "/labctl/state.json"
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	_ = v.BindPFlags(cmd.InheritedFlags())

	v.SetEnvPrefix("LABCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("labctl")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/labctl")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Warn("error reading config file:", err)
		}
	} else {
		logger.Debug("loaded config file", v.ConfigFileUsed())
	}

	return v
}

// setup prepares logging and labels and returns a client for the server
func setup(cmd *cobra.Command) (*viper.Viper, *client.Client, context.Context, error) {
	v := viperForCmd(cmd)

	logger.Init()
	logger.SetLevel(v.GetString("log-level"))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	lang := v.GetString("lang")
	if err := i18n.Init("en"); err != nil {
		return nil, nil, nil, fmt.Errorf("init i18n: %w", err)
	}
	ctx = i18n.WithLocalizer(ctx, i18n.NewLocalizer(lang))

	c, err := client.New(v.GetString("server"),
		client.WithAPIKey(v.GetString("api-key")),
		client.WithAuthToken(v.GetString("auth-token")),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return v, c, ctx, nil
}
