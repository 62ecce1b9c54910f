package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"durak.dev/arrivals/model"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <stop_code>",
	Short: "Lists buses approaching a stop",
	Args:  cobra.ExactArgs(1),
	RunE:  resolve,
}

var resolveTimeout time.Duration

func init() {
	resolveCmd.Flags().DurationVarP(&resolveTimeout, "timeout", "t", 30*time.Second, "Overall resolution timeout")
}

func resolve(cmd *cobra.Command, args []string) error {
	stopCode := args[0]

	pipeline, _, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	result := pipeline.Resolver.Resolve(ctx, stopCode)

	name := result.StationName
	if name == "" {
		name = "unknown"
	}
	fmt.Printf("%s (source: %s)\n", name, result.Source)
	for _, rec := range result.Records {
		clock := rec.ClockTime
		if clock == "" {
			clock = model.ClockFromEta(rec.ETAMinutes, result.AsOf)
		}
		fmt.Printf("%s %s %d min %s\n", rec.Line, clock, rec.ETAMinutes, rec.Destination)
	}

	return nil
}
