package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	archiverag "github.com/SingularityNET-Archive/Archive-RAG-sub000"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Load meeting summary JSON files into the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := archiverag.New(loadConfig())
		if err != nil {
			return err
		}
		defer engine.Close()

		loaded, err := engine.Ingest(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %d meeting summaries from %s\n", loaded, args[0])
		return nil
	},
}
