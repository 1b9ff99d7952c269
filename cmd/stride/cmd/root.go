package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "stride - sorted and sequential binary record files",
	Long: `stride reads and writes compact, self-describing binary files of
fixed-stride typed records: a sorted, binary-searchable variant and a
position-addressed sequential variant.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl})))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("index", "i", "./index.bsf", "Path of the record file")
	rootCmd.PersistentFlags().String("variant", "search", "Registered format variant")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// variantOptions resolves the --variant flag against the variant registry.
func variantOptions(cmd *cobra.Command) (bsfile.Options, error) {
	name, _ := cmd.Flags().GetString("variant")
	opts, ok := bsfile.Variant(name)
	if !ok {
		return bsfile.Options{}, fmt.Errorf("unknown variant %q, registered: %v", name, bsfile.VariantNames())
	}
	return opts, nil
}

// openSearchFile builds the sorted-file handle from the persistent flags.
func openSearchFile(cmd *cobra.Command) (*bsfile.SearchFile, error) {
	opts, err := variantOptions(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("index")
	return bsfile.NewSearchFile(path, opts), nil
}
