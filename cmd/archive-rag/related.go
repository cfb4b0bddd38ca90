package main

import (
	"context"

	"github.com/spf13/cobra"

	archiverag "github.com/SingularityNET-Archive/Archive-RAG-sub000"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
)

var relatedCmd = &cobra.Command{
	Use:   "related <person|workgroup|topic> <entity-id>",
	Short: "Show meeting records mentioning a known entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := archiverag.New(loadConfig())
		if err != nil {
			return err
		}
		defer engine.Close()

		result, err := engine.QueryRelated(context.Background(), entity.Kind(args[0]), entity.ID(args[1]))
		if err != nil {
			return err
		}

		printResult(result)
		return nil
	},
}
