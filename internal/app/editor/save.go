package editor

import (
	"errors"

	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"go.uber.org/zap"
)

// Save outcomes, also used as metric labels.
const (
	OutcomeSaved         = "saved"
	OutcomeTooFewNodes   = "too_few_nodes"
	OutcomeMultipleRoots = "multiple_roots"
)

// SaveResult is the outcome of a save attempt.
type SaveResult struct {
	Saved        bool                `json:"saved"`
	Outcome      string              `json:"outcome"`
	Notification notify.Notification `json:"notification"`
	Roots        []string            `json:"roots,omitempty"`
}

// ValidateAndSave checks the save rule against the current flow and shows
// the result on the notification surface. Any earlier notification is
// dismissed first. Nodes and edges are never modified.
//
// A rule violation is returned as a *validation.SaveError alongside a
// populated result.
func (c *Controller) ValidateAndSave() (SaveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface.Clear()

	err := validation.ValidateFlow(c.flow)
	if err == nil {
		result := SaveResult{
			Saved:        true,
			Outcome:      OutcomeSaved,
			Notification: c.surface.Success(validation.MessageSaved),
		}
		c.recorder.SaveAttempted(result.Outcome)
		c.logger.Info("flow saved",
			zap.Int("nodes", len(c.flow.Nodes)),
			zap.Int("edges", len(c.flow.Edges)),
		)
		return result, nil
	}

	result := SaveResult{Outcome: saveOutcome(err)}
	var saveErr *validation.SaveError
	if errors.As(err, &saveErr) {
		result.Notification = c.surface.Error(saveErr.Message)
		result.Roots = saveErr.Roots
	} else {
		result.Notification = c.surface.Error(err.Error())
	}

	c.recorder.SaveAttempted(result.Outcome)
	c.logger.Info("flow rejected",
		zap.String("outcome", result.Outcome),
		zap.Strings("roots", result.Roots),
	)
	return result, err
}

func saveOutcome(err error) string {
	switch {
	case errors.Is(err, validation.ErrTooFewNodes):
		return OutcomeTooFewNodes
	case errors.Is(err, validation.ErrMultipleRoots):
		return OutcomeMultipleRoots
	default:
		return "error"
	}
}
