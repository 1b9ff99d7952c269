package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print records as tab-separated lines",
	Long: `Decode records from the sorted file and print them in file order.
Without flags the whole file is dumped; --from/--to select a half-open
record range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openSearchFile(cmd)
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")

		var records [][]any
		if to < 0 {
			if from == 0 {
				records, err = file.Read()
			} else {
				n, lerr := file.Len()
				if lerr != nil {
					return lerr
				}
				records, err = file.ReadRange(from, n)
			}
		} else {
			records, err = file.ReadRange(from, to)
		}
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
	dumpCmd.Flags().Int("from", 0, "First record of the range")
	dumpCmd.Flags().Int("to", -1, "End of the range, exclusive (-1 for end of file)")
	rootCmd.AddCommand(dumpCmd)
}
