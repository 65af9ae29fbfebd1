package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/soundscape/results"
)

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the records of a run from a Badger store as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if storeDir == "" {
			return errors.New("--store is required")
		}
		store, err := results.OpenBadger(results.BadgerOptions{Dir: storeDir})
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no records for run %s", args[0])
		}
		return writeRunCSV(os.Stdout, entries)
	},
}

func init() {
	showCmd.Flags().StringVar(&storeDir, "store", "", "Badger database directory")
	rootCmd.AddCommand(showCmd)
}

// writeRunCSV writes one row per recording over the union of keys. Missing
// values are left empty.
func writeRunCSV(w io.Writer, entries []results.Entry) error {
	var keys []string
	for _, e := range entries {
		for _, k := range e.Record.Keys() {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"recording"}, keys...)); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{e.Recording}
		for _, k := range keys {
			v, ok := e.Record[k]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
