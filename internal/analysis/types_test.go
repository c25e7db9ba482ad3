package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityStringRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SeverityOK, SeverityAttention, SeverityProblem} {
		parsed, err := ParseSeverity(sev.String())
		require.NoError(t, err)
		assert.Equal(t, sev, parsed)
	}
}

func TestParseSeverityUnknown(t *testing.T) {
	_, err := ParseSeverity("critical")
	assert.Error(t, err)
}

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, int(SeverityOK), int(SeverityAttention))
	assert.Less(t, int(SeverityAttention), int(SeverityProblem))
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(SeverityAttention)
	require.NoError(t, err)
	assert.Equal(t, `"attention"`, string(data))

	var sev Severity
	require.NoError(t, json.Unmarshal([]byte(`"problem"`), &sev))
	assert.Equal(t, SeverityProblem, sev)

	assert.Error(t, json.Unmarshal([]byte(`"critical"`), &sev))
}

func TestCombinedScore(t *testing.T) {
	m := FrameMetrics{HipShift: 0.25, KneeAsymmetry: 0.5}
	assert.InDelta(t, 0.75, m.CombinedScore(), 1e-12)
}
