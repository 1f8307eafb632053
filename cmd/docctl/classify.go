package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mcpadapter "github.com/kirillkom/dossier/internal/adapters/mcp"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `classify "DOCUMENT TYPE"`,
		Short: "Show the category and tags for a document type string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docType := strings.Join(args, " ")
			category, tags := mcpadapter.ClassifyType(docType)

			bold := color.New(color.Bold).SprintFunc()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", bold("Category:"), categoryColor(category)(string(category)))
			fmt.Fprintf(out, "%s %s\n", bold("Tags:"), strings.Join(tags, ", "))
			return nil
		},
	}
}
