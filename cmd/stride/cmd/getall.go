package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getallCmd represents the getall command
var getallCmd = &cobra.Command{
	Use:   "getall <key>",
	Short: "Get all records sharing a key",
	Long: `Search the sorted file for a key and print every record with that
key, one tab-separated line per record.`,
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
		records, err := file.GetAll(key)
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Fprintln(cmd.OutOrStdout(), formatRecord(record))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getallCmd)
}
