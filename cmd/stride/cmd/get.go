package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the record for a key",
	Long: `Search the sorted file for a key and print the matching record.

Example:
  stride -i places.bsf get berlin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openSearchFile(cmd)
		if err != nil {
			return err
		}
		fields, err := file.Schema()
		if err != nil {
			return err
		}
		key, err := parseKey(fields, args[0])
		if err != nil {
			return err
		}
		last, _ := cmd.Flags().GetBool("last")
		record, err := file.Get(key, !last)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatRecord(record))
		return nil
	},
}

func init() {
	getCmd.Flags().Bool("last", false, "Return the last occurrence instead of the first")
	rootCmd.AddCommand(getCmd)
}
