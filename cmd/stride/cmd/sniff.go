package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// sniffCmd represents the sniff command
var sniffCmd = &cobra.Command{
	Use:   "sniff <file>",
	Short: "Identify the format variant of a file",
	Long: `Probe only the magic bytes of a file against every registered
format variant and print the name of the match.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, ok := bsfile.Sniff(args[0])
		if !ok {
			return fmt.Errorf("%s matches no registered variant", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}
