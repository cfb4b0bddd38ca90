package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	archiverag "github.com/SingularityNET-Archive/Archive-RAG-sub000"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Inspect the canonical entity store",
}

var entitiesListCmd = &cobra.Command{
	Use:   "list <person|workgroup|topic>",
	Short: "List canonical entities of a kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := entity.Kind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("unknown entity kind %q", args[0])
		}

		engine, err := archiverag.New(loadConfig())
		if err != nil {
			return err
		}
		defer engine.Close()

		ents, err := engine.Entities().List(context.Background(), kind)
		if err != nil {
			return err
		}

		for _, e := range ents {
			line := fmt.Sprintf("%s  %s", e.ID, e.Name)
			if len(e.Aliases) > 0 {
				line += "  (" + strings.Join(e.Aliases, ", ") + ")"
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d %s entities\n", len(ents), kind)
		return nil
	},
}

func init() {
	entitiesCmd.AddCommand(entitiesListCmd)
}
