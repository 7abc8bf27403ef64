package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/limitdiff/internal/report"
	"github.com/JonMunkholm/limitdiff/internal/source"
)

func newInspectCmd(pf *parseFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show how a limit table is parsed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, pf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			src, err := source.Open(args[0], cfg.Parse.Sheet)
			if err != nil {
				return err
			}
			rs, err := newService(cfg).ParseSource(cmd.Context(), src, cfg.Parse.Options())
			if err != nil {
				return err
			}
			return report.WriteRecordSet(cmd.OutOrStdout(), rs, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	return cmd
}
