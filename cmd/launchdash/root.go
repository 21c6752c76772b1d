package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"launchdash/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// cli carries the viper instance shared by the root command and its
// subcommands. Flags bound to it override file and environment values.
type cli struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:   "launchdash",
		Short: "SpaceX launch records dashboard",
		Long: "launchdash loads a table of launch records and serves an interactive dashboard:\n" +
			"a success pie chart per site and a payload versus outcome scatter plot.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	f := root.PersistentFlags()
	f.StringVarP(&c.configPath, "config", "c", "", "Config file (yaml, json or toml)")
	f.String("log-level", "info", "Log level: debug, info, warn, error")
	f.String("log-format", "json", "Log format: json or console")
	f.String("source-type", "csv", "Dataset source: csv, xlsx, mysql, postgres, mssql")
	f.String("source-path", "", "Dataset file for csv and xlsx sources")
	f.String("source-ref", "", "Named source to resolve from the sources map or ref store")
	c.bindFlags(f, map[string]string{
		"log-level":   "log.level",
		"log-format":  "log.format",
		"source-type": "source.type",
		"source-path": "source.path",
		"source-ref":  "source_ref",
	})

	root.AddCommand(c.newServeCmd())
	root.AddCommand(c.newOptionsCmd())
	root.AddCommand(c.newRenderCmd())
	return root
}

// bindFlags maps flag names to config keys.
func (c *cli) bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		_ = c.v.BindPFlag(key, fs.Lookup(flag))
	}
}

func (c *cli) loadConfig() (*config.Config, error) {
	return config.Load(c.v, c.configPath)
}
