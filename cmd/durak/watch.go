package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"durak.dev/arrivals/bot"
)

var watchCmd = &cobra.Command{
	Use:   "watch <stop_code>",
	Short: "Polls a stop and prints arrivals on every refresh",
	Args:  cobra.ExactArgs(1),
	RunE:  watch,
}

var watchInterval time.Duration

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 30*time.Second, "Refresh interval while live data is available")
}

// watch polls at a fixed interval as long as a live source answers,
// and backs off exponentially while only placeholder data comes back.
func watch(cmd *cobra.Command, args []string) error {
	stopCode := args[0]

	pipeline, _, err := buildPipeline()
	if err != nil {
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = watchInterval
	policy.MaxInterval = 5 * time.Minute
	policy.MaxElapsedTime = 0
	policy.Reset()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		result := pipeline.Resolver.Resolve(ctx, stopCode)
		fmt.Println(bot.FormatResult(result, result.AsOf))
		fmt.Println()

		wait := watchInterval
		if result.Source.Live() {
			policy.Reset()
		} else {
			wait = policy.NextBackOff()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
