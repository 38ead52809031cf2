package pipeline

import (
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpportunity(t *testing.T) *Opportunity {
	t.Helper()
	opp, err := NewOpportunity(uuid.New(), uuid.New(), "HVAC replacement", decimal.NewFromInt(12000))
	require.NoError(t, err)
	return opp
}

func advanceTo(t *testing.T, opp *Opportunity, target Stage) {
	t.Helper()
	for _, stage := range []Stage{StageQualified, StageProposal, StageNegotiation} {
		if stageOrder[opp.Stage] >= stageOrder[target] {
			return
		}
		_, err := opp.AdvanceStage(stage, nil)
		require.NoError(t, err)
		if stage == target {
			return
		}
	}
}

func TestNewOpportunity(t *testing.T) {
	t.Run("starts in lead stage", func(t *testing.T) {
		opp := newTestOpportunity(t)

		assert.Equal(t, StageLead, opp.Stage)
		assert.False(t, opp.IsClosed())
		assert.Len(t, opp.GetDomainEvents(), 1)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewOpportunity(uuid.New(), uuid.New(), "", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewOpportunity(uuid.New(), uuid.New(), "Deal", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestOpportunityAdvanceStage(t *testing.T) {
	t.Run("advances one stage at a time", func(t *testing.T) {
		opp := newTestOpportunity(t)
		actor := uuid.New()

		history, err := opp.AdvanceStage(StageQualified, &actor)

		require.NoError(t, err)
		assert.Equal(t, StageQualified, opp.Stage)
		assert.Equal(t, StageLead, history.FromStage)
		assert.Equal(t, StageQualified, history.ToStage)
		require.NotNil(t, history.ChangedBy)
		assert.Equal(t, actor, *history.ChangedBy)
	})

	t.Run("rejects skipping stages", func(t *testing.T) {
		opp := newTestOpportunity(t)

		_, err := opp.AdvanceStage(StageProposal, nil)

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		assert.Equal(t, StageLead, opp.Stage)
	})

	t.Run("rejects moving backwards", func(t *testing.T) {
		opp := newTestOpportunity(t)
		advanceTo(t, opp, StageProposal)

		_, err := opp.AdvanceStage(StageQualified, nil)

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})

	t.Run("rejects closing via advance", func(t *testing.T) {
		opp := newTestOpportunity(t)
		advanceTo(t, opp, StageNegotiation)

		_, err := opp.AdvanceStage(StageWon, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "win or lose")
	})

	t.Run("rejects unknown stage", func(t *testing.T) {
		opp := newTestOpportunity(t)

		_, err := opp.AdvanceStage(Stage("archived"), nil)

		assert.Error(t, err)
	})
}

func TestOpportunityMarkWon(t *testing.T) {
	t.Run("wins from negotiation", func(t *testing.T) {
		opp := newTestOpportunity(t)
		advanceTo(t, opp, StageNegotiation)

		history, err := opp.MarkWon(nil)

		require.NoError(t, err)
		assert.Equal(t, StageWon, opp.Stage)
		assert.True(t, opp.IsClosed())
		assert.NotNil(t, opp.ClosedAt)
		assert.Equal(t, StageNegotiation, history.FromStage)
		assert.Equal(t, StageWon, history.ToStage)
	})

	t.Run("cannot win from earlier stages", func(t *testing.T) {
		opp := newTestOpportunity(t)
		advanceTo(t, opp, StageProposal)

		_, err := opp.MarkWon(nil)

		assert.Error(t, err)
		assert.Equal(t, StageProposal, opp.Stage)
	})

	t.Run("cannot win a closed opportunity", func(t *testing.T) {
		opp := newTestOpportunity(t)
		advanceTo(t, opp, StageNegotiation)
		_, err := opp.MarkWon(nil)
		require.NoError(t, err)

		_, err = opp.MarkWon(nil)

		assert.Error(t, err)
	})
}

func TestOpportunityMarkLost(t *testing.T) {
	t.Run("loses from any open stage with a reason", func(t *testing.T) {
		opp := newTestOpportunity(t)

		history, err := opp.MarkLost("Went with a competitor", nil)

		require.NoError(t, err)
		assert.Equal(t, StageLost, opp.Stage)
		assert.Equal(t, "Went with a competitor", opp.LostReason)
		assert.Equal(t, "Went with a competitor", history.Reason)
		assert.NotNil(t, opp.ClosedAt)
	})

	t.Run("requires a reason", func(t *testing.T) {
		opp := newTestOpportunity(t)

		_, err := opp.MarkLost("", nil)

		assert.Error(t, err)
		assert.Equal(t, StageLead, opp.Stage)
	})

	t.Run("closed opportunities stay closed", func(t *testing.T) {
		opp := newTestOpportunity(t)
		_, err := opp.MarkLost("No budget", nil)
		require.NoError(t, err)

		_, err = opp.MarkLost("Again", nil)
		assert.Error(t, err)
		_, err = opp.AdvanceStage(StageQualified, nil)
		assert.Error(t, err)
		assert.Error(t, opp.Update("New title", "", decimal.Zero))
	})
}

func TestOpportunityWeightedValue(t *testing.T) {
	opp := newTestOpportunity(t)
	require.NoError(t, opp.SetProbability(25))

	assert.True(t, opp.WeightedValue().Equal(decimal.NewFromInt(3000)))

	t.Run("rejects probability outside range", func(t *testing.T) {
		assert.Error(t, opp.SetProbability(-1))
		assert.Error(t, opp.SetProbability(101))
	})
}

func TestFollowUp(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)

	t.Run("creates pending follow-up", func(t *testing.T) {
		followUp, err := NewFollowUp(uuid.New(), uuid.New(), "Call about proposal", due)

		require.NoError(t, err)
		assert.Equal(t, FollowUpStatusPending, followUp.Status)
		assert.False(t, followUp.IsOverdue(time.Now()))
	})

	t.Run("requires a note and due date", func(t *testing.T) {
		_, err := NewFollowUp(uuid.New(), uuid.New(), "", due)
		assert.Error(t, err)

		_, err = NewFollowUp(uuid.New(), uuid.New(), "Call", time.Time{})
		assert.Error(t, err)
	})

	t.Run("complete records timestamp", func(t *testing.T) {
		followUp, err := NewFollowUp(uuid.New(), uuid.New(), "Call", due)
		require.NoError(t, err)

		require.NoError(t, followUp.Complete())

		assert.Equal(t, FollowUpStatusDone, followUp.Status)
		assert.NotNil(t, followUp.CompletedAt)
		assert.Error(t, followUp.Complete())
		assert.Error(t, followUp.Cancel())
		assert.Error(t, followUp.Reschedule(due))
	})

	t.Run("reschedule moves due time", func(t *testing.T) {
		followUp, err := NewFollowUp(uuid.New(), uuid.New(), "Call", due)
		require.NoError(t, err)
		later := due.Add(24 * time.Hour)

		require.NoError(t, followUp.Reschedule(later))

		assert.Equal(t, later, followUp.DueAt)
	})

	t.Run("overdue when pending past due time", func(t *testing.T) {
		followUp, err := NewFollowUp(uuid.New(), uuid.New(), "Call", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		assert.True(t, followUp.IsOverdue(time.Now()))

		require.NoError(t, followUp.Cancel())
		assert.False(t, followUp.IsOverdue(time.Now()))
	})
}
