package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgraph/campusgraph/pkg/report"
)

func TestSinkSortsByKeyThenField(t *testing.T) {
	sink := report.NewSink()
	sink.Add(report.Exception{Key: "b", Field: "title", Reason: "empty"})
	sink.Add(report.Exception{Key: "a", Field: "phone", Reason: "bad digits"})
	sink.Add(report.Exception{Key: "a", Field: "email", Reason: "no at sign"})

	out := sink.Exceptions()
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Key)
	assert.Equal(t, "email", out[0].Field)
	assert.Equal(t, "a", out[1].Key)
	assert.Equal(t, "phone", out[1].Field)
	assert.Equal(t, "b", out[2].Key)
}

func TestSinkExceptionsDoesNotMutateOrder(t *testing.T) {
	sink := report.NewSink()
	sink.Add(report.Exception{Key: "z", Reason: "late"})
	sink.Add(report.Exception{Key: "a", Reason: "early"})

	_ = sink.Exceptions()
	assert.Equal(t, 2, sink.Len())

	// A second call sees the same sorted view.
	out := sink.Exceptions()
	assert.Equal(t, "a", out[0].Key)
	assert.Equal(t, "z", out[1].Key)
}

func TestSinkAddfIsNotRetryable(t *testing.T) {
	sink := report.NewSink()
	sink.Addf("k1", "amount", "negative value %q", "-5")

	out := sink.Exceptions()
	require.Len(t, out, 1)
	assert.False(t, out[0].Retryable)
	assert.Equal(t, `negative value "-5"`, out[0].Reason)
}

func TestReportWriteRendersYAML(t *testing.T) {
	r := &report.Report{
		Summary: report.Summary{
			Source:  "people",
			Records: 3,
			Created: 1,
			Skipped: 1,
		},
		Exceptions: []report.Exception{
			{Key: "00000001", Field: "home_dept", Value: "99999999",
				Reason: "no organization with that department id", Retryable: true},
		},
	}

	var buf strings.Builder
	require.NoError(t, r.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "source: people")
	assert.Contains(t, out, "records: 3")
	assert.Contains(t, out, "retryable: true")
	assert.Contains(t, out, "00000001")
}

func TestReportWriteOmitsEmptyExceptions(t *testing.T) {
	r := &report.Report{Summary: report.Summary{Source: "grants"}}

	var buf strings.Builder
	require.NoError(t, r.Write(&buf))
	assert.NotContains(t, buf.String(), "exceptions:")
}
