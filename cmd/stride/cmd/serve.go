package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/strideio/stridefile/pkg/api"
	"github.com/strideio/stridefile/pkg/bsfile"
	"github.com/strideio/stridefile/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve read-only lookups over HTTP",
	Long: `Start an HTTP server answering key lookups against the sorted
file. Settings come from a YAML config file when --config is given;
otherwise the persistent flags and --bind/--port apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			loaded, err := config.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg.IndexPath, _ = cmd.Flags().GetString("index")
			cfg.Variant, _ = cmd.Flags().GetString("variant")
			cfg.Bind, _ = cmd.Flags().GetString("bind")
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		opts, _ := bsfile.Variant(cfg.Variant)
		file := bsfile.NewSearchFile(cfg.IndexPath, opts)
		return api.StartServer(file, api.ServerConfig{Bind: cfg.Bind, Port: cfg.Port}, slog.Default())
	},
}

func init() {
	serveCmd.Flags().String("config", "", "Path of a YAML config file")
	serveCmd.Flags().String("bind", "127.0.0.1", "Bind address")
	serveCmd.Flags().Int("port", 8080, "Listen port")
	rootCmd.AddCommand(serveCmd)
}
