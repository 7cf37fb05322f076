package main

import (
	"fmt"

	"github.com/deppfellow/posts-api/internal/lib/email"
	"github.com/spf13/cobra"
)

var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview [template]",
	Short: "Render an email template with sample data",
	Long:  "Render an email template with sample data to stdout. Without an argument, list the templates.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for _, name := range email.PreviewTemplates() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		html, err := email.Preview(email.Template(args[0]))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, html)
		return err
	},
}
