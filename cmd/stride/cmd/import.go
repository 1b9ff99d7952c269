package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Write tab-separated records to a sorted file",
	Long: `Read tab-separated records from a file or stdin and write them to
the sorted file, replacing it. With --update the existing records are kept
and the whole file is rewritten with the combined, re-sorted record set.

Example:
  stride -i places.bsf import --schema ascii,int places.tsv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openSearchFile(cmd)
		if err != nil {
			return err
		}
		opts, err := variantOptions(cmd)
		if err != nil {
			return err
		}
		schema := opts.Schema
		if spec, _ := cmd.Flags().GetString("schema"); spec != "" {
			schema, err = parseSchema(spec, opts.Types)
			if err != nil {
				return err
			}
			opts.Schema = schema
			path, _ := cmd.Flags().GetString("index")
			file = bsfile.NewSearchFile(path, opts)
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var records [][]any
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			rec, err := parseRecord(line, schema)
			if err != nil {
				return fmt.Errorf("line %d: %w", len(records)+1, err)
			}
			records = append(records, rec)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		headerText, _ := cmd.Flags().GetString("header")
		update, _ := cmd.Flags().GetBool("update")
		if update {
			var headerBytes []byte
			if headerText != "" {
				headerBytes = []byte(headerText)
			}
			err = file.Update(records, headerBytes)
		} else {
			err = file.Write(records, []byte(headerText))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), file.Path())
		return nil
	},
}

func init() {
	importCmd.Flags().String("schema", "", "Comma-separated field types (default: the variant's schema)")
	importCmd.Flags().String("header", "", "Extra header text appended to the format prefix")
	importCmd.Flags().Bool("update", false, "Merge with the existing records instead of replacing them")
	rootCmd.AddCommand(importCmd)
}
