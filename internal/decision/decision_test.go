package decision

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_Matrix(t *testing.T) {
	cases := []struct {
		name      string
		relevance float64
		intent    float64
		decision  Decision
		reason    Reason
	}{
		{"relevance at threshold passes", 0.70, 1.0, DraftOnly, HighConfidence},
		{"relevance just below threshold ignores", 0.69999, 1.0, Ignore, LowRelevance},
		{"low relevance wins over low intent", 0.1, 0.1, Ignore, LowRelevance},
		{"intent just below draft threshold", 0.9, 0.74999, EscalateOnly, LowIntent},
		{"intent at draft threshold", 0.9, 0.75, DraftAndEscalate, MediumConfidence},
		{"medium intent", 0.9, 0.80, DraftAndEscalate, MediumConfidence},
		{"intent just below no-escalation threshold", 0.9, 0.84999, DraftAndEscalate, MediumConfidence},
		{"intent at no-escalation threshold", 0.9, 0.85, DraftOnly, HighConfidence},
		{"all zero", 0, 0, Ignore, LowRelevance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, r := Decide(tc.relevance, tc.intent)
			assert.Equal(t, tc.decision, d)
			assert.Equal(t, tc.reason, r)
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	for r := 0.0; r <= 1.0; r += 0.05 {
		for i := 0.0; i <= 1.0; i += 0.05 {
			d1, r1 := Decide(r, i)
			for n := 0; n < 5; n++ {
				d2, r2 := Decide(r, i)
				require.Equal(t, d1, d2)
				require.Equal(t, r1, r2)
			}
		}
	}
}

func TestDecide_NaNFailsClosed(t *testing.T) {
	d, r := Decide(math.NaN(), 1)
	assert.Equal(t, Ignore, d)
	assert.Equal(t, LowRelevance, r)

	d, r = Decide(0.9, math.NaN())
	assert.Equal(t, EscalateOnly, d)
	assert.Equal(t, LowIntent, r)
}

func TestGate_Totality(t *testing.T) {
	assert.Equal(t, Permissions{false, false}, Gate(Ignore))
	assert.Equal(t, Permissions{false, true}, Gate(EscalateOnly))
	assert.Equal(t, Permissions{true, true}, Gate(DraftAndEscalate))
	assert.Equal(t, Permissions{true, false}, Gate(DraftOnly))
	assert.Equal(t, Permissions{false, false}, Gate("DRAFT_EVERYTHING"))
	assert.Equal(t, Permissions{false, false}, Gate(""))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, Explanation{Key: ExplanationDecisionMissing}, Resolve(nil, nil))
	d := DraftOnly
	assert.Equal(t, Explanation{Key: ExplanationDecisionMissing}, Resolve(&d, nil))

	cases := map[Decision]Explanation{
		Ignore:           {false, false, ExplanationIgnoredLowRelevant},
		EscalateOnly:     {false, true, ExplanationEscalatedLowIntent},
		DraftAndEscalate: {true, true, ExplanationDraftNeedsReview},
		DraftOnly:        {true, false, ExplanationDraftAvailable},
	}
	for dec, want := range cases {
		dec := dec
		reason := HighConfidence
		got := Resolve(&dec, &reason)
		assert.Equal(t, want, got, string(dec))
		p := Gate(dec)
		assert.Equal(t, p.AllowDraft, got.ShowDraftSection)
		assert.Equal(t, p.RequireEscalation, got.ShowEscalationBanner)
	}

	unknown := Decision("SOMETHING_ELSE")
	reason := LowIntent
	assert.Equal(t, Explanation{Key: ExplanationDecisionUnknown}, Resolve(&unknown, &reason))
}

func TestEndToEnd_MediumConfidence(t *testing.T) {
	d, r := Decide(0.9, 0.80)
	require.Equal(t, DraftAndEscalate, d)
	require.Equal(t, MediumConfidence, r)

	p := Gate(d)
	require.True(t, p.AllowDraft)
	require.True(t, p.RequireEscalation)

	e := Resolve(&d, &r)
	assert.True(t, e.ShowDraftSection)
	assert.True(t, e.ShowEscalationBanner)
	assert.Equal(t, ExplanationDraftNeedsReview, e.Key)
}

func TestNewSnapshot_MissingScoresCountAsZero(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewSnapshot("snap_1", "msg_1", nil, nil, at)
	assert.Equal(t, Ignore, s.Decision)
	assert.Equal(t, LowRelevance, s.Reason)

	rel, intent := 0.95, 0.9
	s = NewSnapshot("snap_2", "msg_1", &rel, &intent, at)
	assert.Equal(t, DraftOnly, s.Decision)
	assert.Equal(t, 0.95, s.RelevanceConfidence)
	assert.Equal(t, at, s.TakenAt)
}
