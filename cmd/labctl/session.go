package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/internal/phase"
	"github.com/CLDWare/methods-lab/pkg/client"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start and steer sessions as the presenter",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start a session with one group per method",
		Args:  cobra.NoArgs,
		RunE:  runSessionStart,
	}
	start.Flags().Float64P("minutes", "m", 5, "Work time in minutes")
	start.Flags().Int("students", 0, "Expected number of students")

	phaseCmd := &cobra.Command{
		Use:   "phase <session|current> <intro|qr|work|results|counterexample>",
		Short: "Move a session to a phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := phase.Parse(args[1])
			if err != nil {
				return err
			}
			return sessionAction(cmd, args[0], func(ctx context.Context, c *client.Client, id string) (*models.Session, error) {
				return c.UpdatePhase(ctx, id, p)
			})
		},
	}

	status := &cobra.Command{
		Use:   "status <session|current> <waiting|active|paused>",
		Short: "Pause or resume a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := phase.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return sessionAction(cmd, args[0], func(ctx context.Context, c *client.Client, id string) (*models.Session, error) {
				return c.SetStatus(ctx, id, st)
			})
		},
	}

	end := &cobra.Command{
		Use:   "end <session|current>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sessionAction(cmd, args[0], func(ctx context.Context, c *client.Client, id string) (*models.Session, error) {
				if err := c.EndSession(ctx, id); err != nil {
					return nil, err
				}
				return c.Session(ctx, id)
			})
		},
	}

	reveal := &cobra.Command{
		Use:   "reveal <session|current>",
		Short: "Show or hide the correct answers and counterexamples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var answer, counter *bool
			if cmd.Flags().Changed("answer") {
				b, _ := cmd.Flags().GetBool("answer")
				answer = &b
			}
			if cmd.Flags().Changed("counterexample") {
				b, _ := cmd.Flags().GetBool("counterexample")
				counter = &b
			}
			return sessionAction(cmd, args[0], func(ctx context.Context, c *client.Client, id string) (*models.Session, error) {
				return c.Reveal(ctx, id, answer, counter)
			})
		},
	}
	reveal.Flags().Bool("answer", false, "Reveal the correct answer")
	reveal.Flags().Bool("counterexample", false, "Reveal the counterexample")

	activate := &cobra.Command{
		Use:   "activate <session|current>",
		Short: "Start the clock of a waiting session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sessionAction(cmd, args[0], func(ctx context.Context, c *client.Client, id string) (*models.Session, error) {
				if err := c.ActivateSession(ctx, id); err != nil {
					return nil, err
				}
				return c.Session(ctx, id)
			})
		},
	}

	cmd.AddCommand(start, phaseCmd, status, activate, end, reveal)
	return cmd
}

func runSessionStart(cmd *cobra.Command, _ []string) error {
	v, c, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	minutes := v.GetFloat64("minutes")
	if minutes < 0 {
		return fmt.Errorf("--minutes must not be negative")
	}

	session, groups, err := c.CreateSession(ctx, minutesToDuration(minutes), v.GetInt("students"))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printSession(ctx, out, session)
	for _, g := range groups {
		fmt.Fprintf(out, "  %d %-10s %s\n", g.GroupNumber, g.MethodType, c.JoinURL(g.ID))
	}
	return nil
}

// sessionAction resolves "current" and prints the session after fn
func sessionAction(cmd *cobra.Command, ref string, fn func(context.Context, *client.Client, string) (*models.Session, error)) error {
	_, c, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	id := ref
	if ref == "current" {
		current, err := c.CurrentSession(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%s", i18n.T(ctx, "NoSession"))
		}
		id = current.ID
	}
	session, err := fn(ctx, c, id)
	if err != nil {
		return err
	}
	printSession(ctx, cmd.OutOrStdout(), session)
	return nil
}

func printSession(ctx context.Context, out io.Writer, s *models.Session) {
	fmt.Fprintf(out, "%s  %s · %s\n", s.ID, i18n.StatusLabel(ctx, s.Status), i18n.PhaseTitle(ctx, s.CurrentPhase))
}
