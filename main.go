package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"todos/internal/config"
)

// app carries the settings shared by every command.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *log.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:          "todos",
		Short:        "A personal task list: server, terminal UI and scripted client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger(os.Stderr)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, toml or json)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("backend-url", "", "todo service base URL used by the clients")
	mustBind(a.v, flags, map[string]string{
		"log-level":   "log.level",
		"backend-url": "client.backend_url",
	})

	root.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newDoneCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newClearCmd(a),
	)

	return root
}

// mustBind binds flags to config keys. The flags are declared right beside
// the call, so a failure is a programming error.
func mustBind(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	if err := config.BindFlags(v, fs, keys); err != nil {
		panic(err)
	}
}
