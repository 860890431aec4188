package main

import (
	"io"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/qnn/config"
)

const codeCLISetupFailure = "cli.setup.failure"

// NewRootCmd creates the root qnn command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "qnn",
		Short:         "Nearest-neighbour search over question embeddings",
		Long:          "qnn embeds the questions of a QA dataset with pretrained word vectors and finds, for each question, the most similar questions by exact inner-product search.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd, v)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("env-file", ".env", "path to env file")
	root.PersistentFlags().String("data-dir", "", "path to data directory")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")

	root.AddCommand(
		newRunCmd(v),
		newConfigCmd(v),
		newVersionCmd(),
	)
	return root
}

// initViper applies flag > env > file > defaults precedence to v.
func initViper(cmd *cobra.Command, v *viper.Viper) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return oops.Code(config.CodeConfigLoadReadFailure).With("path", cfgFile).Wrapf(err, "reading config file")
		}
	}

	persistent := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"data_dir":   "data-dir",
		"log.level":  "log-level",
		"log.format": "log-format",
	} {
		if err := bindChanged(v, key, persistent.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig decodes v after the command's own flags were bound.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg, cmd.ErrOrStderr()))
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
