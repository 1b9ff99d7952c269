package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a summary of a record file",
	Long: `Print record count, total size, stride, and field widths of the
file. The variant is sniffed from the magic bytes when possible.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("index")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("file %s does not exist", path)
		}

		name, ok := bsfile.Sniff(path)
		if !ok {
			name, _ = cmd.Flags().GetString("variant")
		}
		opts, ok := bsfile.Variant(name)
		if !ok {
			return fmt.Errorf("unknown variant %q, registered: %v", name, bsfile.VariantNames())
		}

		if name == "sequential" {
			file, err := bsfile.OpenSequentialFile(path, opts, nil)
			if err != nil {
				return err
			}
			defer file.Close()
			fmt.Fprint(cmd.OutOrStdout(), file.String())
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), bsfile.NewSearchFile(path, opts).String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
