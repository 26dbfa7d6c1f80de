package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePanelRatios(t *testing.T) {
	ds := mustDecode(t, testDocument)
	opts := DefaultOptions()
	opts.XMin, opts.XMax = 5, 50
	opts.Labels = []string{"JSON", "PROTOBUF JS"}
	traces, err := AssemblePanel(ds, Panel{Metric: MetricEncodedTime, Baseline: "JSON"}, opts)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, "JSON", traces[0].Label)
	assert.Equal(t, "PROTOBUF JS", traces[1].Label)
	assert.Equal(t, []float64{5, 10, 50}, traces[0].X)
	assert.Equal(t, []float64{1, 1, 1}, traces[0].Y, "baseline against itself")
	assert.Equal(t, []float64{2, 2, 2}, traces[1].Y)
}

func TestAssemblePanelZeroBaseline(t *testing.T) {
	ds := mustDecode(t, testDocument)
	opts := DefaultOptions()
	opts.Labels = []string{"PROTOBUF JS"}
	traces, err := AssemblePanel(ds, Panel{Metric: MetricDecodedTime, Baseline: "JSON"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 1, 0, 1}, traces[0].Y)
}

func TestAssemblePanelBaselineShorterThanCandidate(t *testing.T) {
	ds := mustDecode(t, testDocument)
	opts := DefaultOptions()
	opts.Labels = []string{"JSON"}
	traces, err := AssemblePanel(ds, Panel{Metric: MetricEncodedTime, Baseline: "AVRO Avsc"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2, 0, 0}, traces[0].Y)
}

func TestAssemblePanelSharedDisplayLabel(t *testing.T) {
	ds := mustDecode(t, `{
  "v1": {"label": "JSON", "x": [1, 2], "y": {"encodedTime": [1, 2]}},
  "v2": {"label": "JSON", "x": [1, 2], "y": {"encodedTime": [2, 2]}}
}`)
	traces, err := AssemblePanel(ds, Panel{Metric: MetricEncodedTime, Baseline: "v1"}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, Trace{Key: "v1", Label: "JSON", X: []float64{1, 2}, Y: []float64{1, 1}}, traces[0])
	assert.Equal(t, Trace{Key: "v2", Label: "JSON", X: []float64{1, 2}, Y: []float64{2, 1}}, traces[1])
}

func TestAssembleLookupFailures(t *testing.T) {
	ds := mustDecode(t, testDocument)
	type testcase struct {
		name   string
		panel  Panel
		labels []string
		target error
	}
	for _, tc := range []testcase{
		{
			name:   "missing label",
			panel:  Panel{Metric: MetricEncodedTime},
			labels: []string{"JSON", "CBOR"},
			target: ErrUnknownLabel,
		},
		{
			name:   "missing baseline",
			panel:  Panel{Metric: MetricEncodedTime, Baseline: "CBOR"},
			target: ErrUnknownLabel,
		},
		{
			name:   "missing metric",
			panel:  Panel{Metric: MetricDecodedTime},
			target: ErrUnknownMetric,
		},
		{
			name:   "baseline missing metric",
			panel:  Panel{Metric: MetricEncodedSize, Baseline: "AVRO Avsc"},
			labels: []string{"JSON"},
			target: ErrUnknownMetric,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Labels = tc.labels
			fig := Figure{Name: "broken", Panels: []Panel{{Metric: MetricEncodedTime}, tc.panel}}
			_, err := Assemble(ds, fig, opts)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestLayouts(t *testing.T) {
	for layout, count := range map[Layout]int{LayoutFull: 4, LayoutRatio: 2, LayoutSize: 1} {
		panels, err := layout.Panels("JSON")
		if assert.NoError(t, err, layout) {
			assert.Len(t, panels, count, layout)
		}
	}
	full, _ := LayoutFull.Panels("JSON")
	assert.Empty(t, full[0].Baseline)
	assert.True(t, full[0].LogY)
	assert.Equal(t, "JSON", full[1].Baseline)
	assert.False(t, full[1].LogY)
	_, err := Layout("pie").Panels("JSON")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	ds := mustDecode(t, testDocument)
	opts := DefaultOptions()
	opts.XMin = 10
	opts.Labels = []string{"JSON", "PROTOBUF JS"}
	panels, _ := LayoutSize.Panels("JSON")
	points, err := Report(ds, Figure{Name: "size", Panels: panels}, opts)
	require.NoError(t, err)
	assert.Equal(t, []FirstPoint{
		{Label: "JSON", Metric: MetricEncodedSize, X: 10, Y: 1},
		{Label: "PROTOBUF JS", Metric: MetricEncodedSize, X: 10, Y: 0.4},
	}, points)

	opts.XMin, opts.XMax = 0, 0.5
	points, err = Report(ds, Figure{Name: "size", Panels: panels}, opts)
	require.NoError(t, err)
	for _, p := range points {
		assert.True(t, p.Empty, "expected empty window for %s", p.Label)
	}
}
