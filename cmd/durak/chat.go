package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"durak.dev/arrivals/bot"
	"durak.dev/arrivals/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session using the bot command set",
	Args:  cobra.NoArgs,
	RunE:  chat,
}

var chatDBDir string

func init() {
	chatCmd.Flags().StringVarP(&chatDBDir, "db-dir", "", "", "Directory for the station database (in-memory if empty)")
}

func chat(cmd *cobra.Command, args []string) error {
	pipeline, logger, err := buildPipeline()
	if err != nil {
		return err
	}

	var st store.Store
	if chatDBDir != "" {
		sqlite, err := store.NewSQLiteStore(store.SQLiteConfig{OnDisk: true, Directory: chatDBDir})
		if err != nil {
			return fmt.Errorf("opening station database: %w", err)
		}
		defer sqlite.Close()
		st = sqlite
	} else {
		st = store.NewMemoryStore()
	}

	b := bot.New(pipeline.Resolver, st)
	b.Logger = logger

	fmt.Println("Type /yardim for commands, ctrl-d to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		fmt.Println(b.HandleMessage(context.Background(), "local", line))
	}

	return scanner.Err()
}
