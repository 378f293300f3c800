package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func linkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the join link of the first group of the latest session",
		Args:  cobra.NoArgs,
		RunE:  runLink,
	}
	cmd.Flags().StringP("output", "o", "", "Also write the group id to this file")
	return cmd
}

func runLink(cmd *cobra.Command, _ []string) error {
	v, c, ctx, err := setup(cmd)
	if err != nil {
		return err
	}

	session, err := c.LatestSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return errors.New("no sessions on the server yet")
	}
	groups, err := c.Groups(ctx, session.ID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return fmt.Errorf("session %s has no groups", session.ID)
	}
	first := groups[0]

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "SESSION_ID=%s\n", session.ID)
	fmt.Fprintf(out, "GROUP_ID=%s\n", first.ID)
	fmt.Fprintf(out, "METHOD=%s\n", first.MethodType)
	fmt.Fprintln(out, c.JoinURL(first.ID))

	if path := v.GetString("output"); path != "" {
		if err := os.WriteFile(path, []byte(first.ID), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
