package analysis

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportTemplates(t *testing.T) {
	builder := NewReportBuilder()
	agg := AggregateMetrics{AvgHipShift: 0.03, MaxHipShift: 0.05, AvgKneeAsymmetry: 0.02, MaxKneeAsymmetry: 0.04}
	neutral := KeyMoment{Label: LabelNeutral, FrameIndex: 0, Timestamp: 0, Metrics: FrameMetrics{KneeAngleLeft: 175, KneeAngleRight: 175}}
	peak := KeyMoment{Label: LabelPeakCompensation, FrameIndex: 42, Timestamp: 1.4, Metrics: FrameMetrics{KneeAngleLeft: 160, KneeAngleRight: 150}}

	t.Run("problem with side", func(t *testing.T) {
		report := builder.Build(agg, neutral, peak, SideRight, SeverityProblem)
		assert.Equal(t, "Load shifts to the left leg at 30° knee flexion", report.Message)
		assert.Equal(t, recProblem, report.Recommendation)
	})

	t.Run("problem without side", func(t *testing.T) {
		report := builder.Build(agg, neutral, peak, SideNone, SeverityProblem)
		assert.Equal(t, "Lateral hip shift detected at 30° knee flexion", report.Message)
		assert.Equal(t, recProblem, report.Recommendation)
	})

	t.Run("attention with side", func(t *testing.T) {
		report := builder.Build(agg, neutral, peak, SideLeft, SeverityAttention)
		assert.Equal(t, "Mild load shift toward the right leg at 30° knee flexion", report.Message)
		assert.Equal(t, recAttention, report.Recommendation)
	})

	t.Run("ok", func(t *testing.T) {
		report := builder.Build(agg, neutral, peak, SideNone, SeverityOK)
		assert.Equal(t, msgOK, report.Message)
		assert.Equal(t, recOK, report.Recommendation)
	})
}

func TestBuildReportStructure(t *testing.T) {
	builder := NewReportBuilder()
	agg := AggregateMetrics{AvgHipShift: 0.01, MaxHipShift: 0.02, AvgKneeAsymmetry: 0.01, MaxKneeAsymmetry: 0.02}
	neutral := KeyMoment{Label: LabelNeutral, FrameIndex: 2, Timestamp: 0.066, Metrics: FrameMetrics{KneeAngleLeft: 170, KneeAngleRight: 170}}
	peak := KeyMoment{Label: LabelPeakCompensation, FrameIndex: 30, Timestamp: 1.0, Metrics: FrameMetrics{KneeAngleLeft: 120, KneeAngleRight: 110}}

	report := builder.Build(agg, neutral, peak, SideNone, SeverityOK)

	assert.Equal(t, agg, report.Summary)
	require.Len(t, report.KeyMoments, 2)
	assert.Equal(t, LabelNeutral, report.KeyMoments[0].Label)
	assert.Equal(t, LabelPeakCompensation, report.KeyMoments[1].Label)
}

func TestReportJSONRoundTrip(t *testing.T) {
	builder := NewReportBuilder()
	agg := AggregateMetrics{AvgHipShift: 0.01, MaxHipShift: 0.04, AvgKneeAsymmetry: 0.17, MaxKneeAsymmetry: 0.33}
	neutral := KeyMoment{Label: LabelNeutral, FrameIndex: 0, Timestamp: 0, Metrics: FrameMetrics{HipShift: 0.01, KneeAngleLeft: 150, KneeAngleRight: 150}}
	peak := KeyMoment{Label: LabelPeakCompensation, FrameIndex: 5, Timestamp: 0.166, Metrics: FrameMetrics{HipShift: 0.01, KneeAngleLeft: 150, KneeAngleRight: 100, KneeAsymmetry: 1.0 / 3}}

	original := builder.Build(agg, neutral, peak, SideRight, SeverityProblem)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded AnalysisReport
	require.NoError(t, json.Unmarshal(data, &decoded))

	if diff := cmp.Diff(*original, decoded); diff != "" {
		t.Errorf("отчет изменился после сериализации (-want +got):\n%s", diff)
	}
}

func TestReportJSONShape(t *testing.T) {
	builder := NewReportBuilder()
	report := builder.Build(AggregateMetrics{}, KeyMoment{Label: LabelNeutral}, KeyMoment{Label: LabelPeakCompensation}, SideLeft, SeverityAttention)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{"summary", "compensating_side", "severity", "message", "recommendation", "key_moments"} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 6)
	assert.JSONEq(t, `"attention"`, string(fields["severity"]))
	assert.JSONEq(t, `"left"`, string(fields["compensating_side"]))
}
