package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

var (
	ErrUnknownOption    = errors.New("choose one of the listed options")
	ErrAlreadySubmitted = errors.New("this device already answered the group")
)

// Answer is what a student fills in
type Answer struct {
	GroupID       string
	Option        string
	Justification string
}

// SubmitAnswer validates the option against the group's scenario, posts the
// answer under a fresh device token and remembers the group locally. It does
// not retry.
func SubmitAnswer(ctx context.Context, c *Client, local *LocalStore, a Answer) (*models.Submission, error) {
	if local != nil && local.Submitted(a.GroupID) {
		return nil, ErrAlreadySubmitted
	}
	group, err := c.Group(ctx, a.GroupID)
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}
	if group.Scenario == nil || !group.Scenario.HasOption(a.Option) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, a.Option)
	}

	sub := &models.Submission{
		GroupID:        a.GroupID,
		SelectedFactor: a.Option,
		Justification:  strings.TrimSpace(a.Justification),
		DeviceHash:     store.NewDeviceHash(),
	}
	if err := c.InsertSubmission(ctx, sub); err != nil {
		return nil, err
	}
	if local != nil {
		if err := local.MarkSubmitted(a.GroupID); err != nil {
			return sub, fmt.Errorf("answer saved, but could not remember it: %w", err)
		}
	}
	return sub, nil
}
