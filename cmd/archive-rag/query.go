package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	archiverag "github.com/SingularityNET-Archive/Archive-RAG-sub000"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

var (
	queryMaxResults        int
	queryRequireExtraction bool
	queryJSON              bool
)

var queryCmd = &cobra.Command{
	Use:   "query \"question\"",
	Short: "Ask a question over the archived meeting records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		engine, err := archiverag.New(loadConfig())
		if err != nil {
			return err
		}
		defer engine.Close()

		var opts []archiverag.QueryOption
		if queryMaxResults > 0 {
			opts = append(opts, archiverag.WithMaxResults(queryMaxResults))
		}
		if queryRequireExtraction {
			opts = append(opts, archiverag.WithRequireExtraction())
		}

		result, err := engine.Query(context.Background(), question, opts...)
		if err != nil {
			return err
		}

		if queryJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		printResult(result)
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryMaxResults, "max-results", 0, "maximum evidence excerpts to retrieve")
	queryCmd.Flags().BoolVar(&queryRequireExtraction, "require-extraction", false, "demand extraction metadata on citations")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the raw QueryResult JSON")
}

func printResult(result *archiverag.QueryResult) {
	fmt.Println(result.Answer)
	fmt.Println()

	if !result.EvidenceFound {
		fmt.Println("(no verified evidence)")
	}
	fmt.Println("Citations:")
	for _, c := range result.Citations {
		if c.RecordID == evidence.SentinelNoEvidence {
			fmt.Printf("  - [no evidence] %s\n", c.Excerpt)
			continue
		}
		line := "  - " + c.RecordID
		if c.Date != "" {
			line += " (" + c.Date + ")"
		}
		if c.Workgroup != "" {
			line += " " + c.Workgroup
		}
		fmt.Println(line)
	}
	fmt.Printf("\nintent=%s seed=%d model=%s audit=%s\n",
		result.Intent, result.Seed, result.ModelVersion, result.AuditPath)
}
