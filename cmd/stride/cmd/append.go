package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// appendCmd represents the append command
var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append tab-separated records to a sequential file",
	Long: `Read tab-separated records from stdin and append them to the
sequential file. A missing file is created with the variant's schema and
widths; --schema and --widths override them for new files.

Example:
  printf 'alpha\t1\n' | stride -i log.bsf --variant sequential append`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := variantOptions(cmd)
		if err != nil {
			return err
		}
		if spec, _ := cmd.Flags().GetString("schema"); spec != "" {
			opts.Schema, err = parseSchema(spec, opts.Types)
			if err != nil {
				return err
			}
		}
		if widths, _ := cmd.Flags().GetUintSlice("widths"); len(widths) > 0 {
			opts.Widths = make([]uint16, len(widths))
			for i, w := range widths {
				opts.Widths[i] = uint16(w)
			}
		}

		path, _ := cmd.Flags().GetString("index")
		headerText, _ := cmd.Flags().GetString("header")
		file, err := bsfile.OpenSequentialFile(path, opts, []byte(headerText))
		if err != nil {
			return err
		}
		defer file.Close()

		schema := make([]uint8, 0, len(file.Schema()))
		for _, f := range file.Schema() {
			schema = append(schema, f.Type)
		}
		n, err := file.Len()
		if err != nil {
			return err
		}

		written := 0
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			rec, err := parseRecord(line, schema)
			if err != nil {
				return fmt.Errorf("line %d: %w", written+1, err)
			}
			if err := file.WriteAt(rec, n+written); err != nil {
				return err
			}
			written++
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "appended %d records to %s\n", written, path)
		return nil
	},
}

func init() {
	appendCmd.Flags().String("schema", "", "Comma-separated field types for a new file")
	appendCmd.Flags().UintSlice("widths", nil, "Field widths in bytes for a new file")
	appendCmd.Flags().String("header", "", "Extra header text for a new file")
	rootCmd.AddCommand(appendCmd)
}
