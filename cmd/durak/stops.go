package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops [filter]",
	Short: "Lists known stops from the static dataset",
	Args:  cobra.RangeArgs(0, 1),
	RunE:  stops,
}

var stopsCSV bool

func init() {
	stopsCmd.Flags().BoolVarP(&stopsCSV, "csv", "", false, "Output as CSV")
}

type stopRow struct {
	Code string `csv:"code"`
	Name string `csv:"name"`
}

func stops(cmd *cobra.Command, args []string) error {
	filter := ""
	if len(args) == 1 {
		filter = strings.ToLower(args[0])
	}

	pipeline, _, err := buildPipeline()
	if err != nil {
		return err
	}

	snapshot, err := pipeline.Dataset.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("fetching stop dataset: %w", err)
	}

	rows := []stopRow{}
	for _, stop := range snapshot.Stops {
		if filter != "" && !strings.Contains(strings.ToLower(stop.Name), filter) {
			continue
		}
		rows = append(rows, stopRow{Code: stop.Code, Name: stop.Name})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Code < rows[j].Code
	})

	if stopsCSV {
		return gocsv.Marshal(&rows, os.Stdout)
	}

	for _, row := range rows {
		fmt.Printf("%s %s\n", row.Code, row.Name)
	}

	return nil
}
