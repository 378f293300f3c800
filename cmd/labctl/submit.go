package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/pkg/client"
)

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <group> <option>",
		Short: "Answer a group's question as a student",
		Args:  cobra.ExactArgs(2),
		RunE:  runSubmit,
	}
	cmd.Flags().String("why", "", "Justification for the answer")
	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	v, c, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	local, err := client.OpenLocalStore(v.GetString("state-file"))
	if err != nil {
		return err
	}

	sub, err := client.SubmitAnswer(ctx, c, local, client.Answer{
		GroupID:       args[0],
		Option:        args[1],
		Justification: v.GetString("why"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(ctx, "SubmissionReceived"))
	fmt.Fprintf(cmd.OutOrStdout(), "DEVICE=%s\n", sub.DeviceHash)
	return nil
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the case studies and their answer options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, c, ctx, err := setup(cmd)
			if err != nil {
				return err
			}
			list, err := c.Scenarios(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, sc := range list {
				fmt.Fprintf(out, "%s: %s\n", sc.Method, sc.Title)
				fmt.Fprintf(out, "  %s\n", sc.Question)
				fmt.Fprintf(out, "  factors: %s\n", strings.Join(sc.Factors, ", "))
				for _, o := range sc.Options {
					fmt.Fprintf(out, "  - %s\n", o)
				}
			}
			return nil
		},
	}
}
