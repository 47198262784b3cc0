// Package commands provides the cobra command tree for restgen.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erraggy/restgen"
)

// EnvPrefix is the prefix viper uses to map environment variables to flags.
const EnvPrefix = "RESTGEN"

type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
}

// NewRootCmd builds the restgen command tree. Each call gets its own viper
// instance so commands can be executed repeatedly in tests.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "restgen",
		Short: "Generate Go REST client SDKs from OpenAPI 3 documents",
		Long: "restgen turns an OpenAPI 3 document into an idiomatic Go client package.\n\n" +
			"Each tag becomes a resource type with one method per operation. Paginated\n" +
			"list operations get a single-page method and an all-pages method driven\n" +
			"by the pagination runtime.\n\n" +
			"Every flag can also be set in restgen.yaml or through RESTGEN_* environment\n" +
			"variables (for example RESTGEN_VENDOR=stripe).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./restgen.yaml)")
	root.PersistentFlags().Bool("verbose", false, "log progress and fallback diagnostics to stderr")
	_ = a.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.Version = restgen.Version()
	root.SetVersionTemplate("restgen v{{.Version}}\n")

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newVendorsCmd(a))
	root.AddCommand(newMCPCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// setup reads the config file and environment, then builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("restgen")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) bindFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = a.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}
