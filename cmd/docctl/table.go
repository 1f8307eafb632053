package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/kirillkom/dossier/internal/core/domain"
)

func printDocuments(w io.Writer, docs []domain.Document) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := color.New(color.Bold, color.Underline).SprintFunc()
	fmt.Fprintln(tw, strings.Join([]string{
		header("NAME"), header("CATEGORY"), header("STATUS"), header("VALID UNTIL"), header("SIZE"), header("TAGS"),
	}, "\t"))
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name,
			categoryColor(d.Category)(string(d.Category)),
			statusColor(d.Status)(string(d.Status)),
			d.ValidUntil,
			d.Size,
			strings.Join(d.Tags, ", "),
		)
	}
	_ = tw.Flush()
}

func statusColor(status domain.DocumentStatus) func(a ...interface{}) string {
	if status == domain.StatusError {
		return color.New(color.FgRed).SprintFunc()
	}
	return color.New(color.FgGreen).SprintFunc()
}

func categoryColor(category domain.Category) func(a ...interface{}) string {
	switch category {
	case domain.CategoryIdentity:
		return color.New(color.FgCyan).SprintFunc()
	case domain.CategoryInvoice:
		return color.New(color.FgYellow).SprintFunc()
	case domain.CategoryPayment:
		return color.New(color.FgMagenta).SprintFunc()
	default:
		return color.New(color.FgWhite).SprintFunc()
	}
}
