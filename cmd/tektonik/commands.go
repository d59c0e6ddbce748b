package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Render a template to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if flushErr := s.flushMetrics(); err == nil {
					err = flushErr
				}
			}()

			vars, err := s.vars()
			if err != nil {
				return err
			}

			if output == "" {
				return s.host.Render(cmd.OutOrStdout(), args[0], vars)
			}
			out, err := s.host.Fetch(args[0], vars)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s written to %s\n", args[0], output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path NAME",
		Short: "Print the file a template name resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			engine, err := s.host.Engine()
			if err != nil {
				return err
			}
			path, err := engine.Path(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newExistsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists NAME",
		Short: "Report whether a template name resolves to an existing file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			engine, err := s.host.Engine()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), engine.Exists(args[0]))
			return nil
		},
	}
}
