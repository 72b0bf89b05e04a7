package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/docweave/content"
	"github.com/tsawler/docweave/templates"
)

// selectCmd reports the template a description would use
var selectCmd = &cobra.Command{
	Use:   "select <content>",
	Short: "Print the template kind a content description would use",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	desc, err := content.Load(args[0])
	if err != nil {
		return err
	}
	kind := templates.Select(desc, templates.Auto)
	path, err := cfg.TemplateSet().Path(kind)
	if err != nil {
		log.Warn("template file missing", zap.Error(err))
		fmt.Fprintln(cmd.OutOrStdout(), kind)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", kind, path)
	return nil
}
