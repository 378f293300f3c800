package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/internal/views"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the live board of a role until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	cmd.Flags().String("role", string(views.Projector), "presenter, projector or student")
	cmd.Flags().String("group", "", "Group id to follow as a student")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	v, c, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	role, err := views.ParseRole(v.GetString("role"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	feed := c.Feed()
	opts := views.Options{
		Role:         role,
		Source:       c,
		Feed:         feed,
		GroupID:      v.GetString("group"),
		PollInterval: v.GetDuration("poll-interval"),
		JoinURL:      c.JoinURL,
		OnChange: func(b views.Board) {
			renderBoard(ctx, out, b)
		},
	}
	if role == views.Presenter {
		opts.Actions = c
	}

	viewer, err := views.NewViewer(opts)
	if err != nil {
		return err
	}
	err = viewer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderBoard writes a plain text rendition of a board
func renderBoard(ctx context.Context, out io.Writer, b views.Board) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	if b.Session == nil {
		fmt.Fprintln(out, i18n.T(ctx, "NoSession"))
		return
	}
	s := b.Session
	fmt.Fprintf(out, "%s · %s · %s\n", i18n.T(ctx, "AppTitle"),
		i18n.PhaseTitle(ctx, s.CurrentPhase), i18n.StatusLabel(ctx, s.Status))
	if b.RemainingSeconds > 0 {
		fmt.Fprintln(out, i18n.Td(ctx, "TimeLeft", map[string]any{"Clock": b.Clock}))
	} else {
		fmt.Fprintln(out, i18n.T(ctx, "TimeUp"))
	}
	fmt.Fprintln(out, i18n.Tp(ctx, "AnswersReceived", b.Total))

	for _, g := range b.Groups {
		fmt.Fprintln(out)
		title := string(g.Group.MethodType)
		if g.Scenario != nil {
			title = g.Scenario.Title
		}
		fmt.Fprintln(out, i18n.Td(ctx, "GroupTitle", map[string]any{"Number": g.Group.GroupNumber, "Title": title}))
		if g.JoinURL != "" {
			fmt.Fprintf(out, "  %s\n", g.JoinURL)
		}
		if g.Scenario != nil && g.Scenario.CorrectAnswer != "" && b.Role != views.Presenter {
			fmt.Fprintf(out, "  %s\n", i18n.Td(ctx, "CorrectAnswer", map[string]any{"Answer": g.Scenario.CorrectAnswer}))
		}
		if g.Tally == nil {
			fmt.Fprintf(out, "  %s\n", i18n.Tp(ctx, "AnswersReceived", g.Submissions))
			continue
		}
		for _, o := range g.Tally.Options {
			mark := " "
			if o.Correct {
				mark = "✓"
			}
			lead := ""
			if o.Leading {
				lead = " *"
			}
			fmt.Fprintf(out, "  %s %-40s %3d %5.1f%%%s\n", mark, o.Option, o.Count, o.Percent, lead)
		}
	}
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
