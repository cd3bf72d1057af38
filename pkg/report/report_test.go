package report

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomes(n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = Outcome{Path: fmt.Sprintf("/home/u/f%d.txt", i+1)}
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		count int
		limit int
		want  string
	}{
		{"empty", 0, 5, ""},
		{"under cap", 2, 5, "• <b>f1.txt</b>\n• <b>f2.txt</b>"},
		{"at cap", 3, 3, "• <b>f1.txt</b>\n• <b>f2.txt</b>\n• <b>f3.txt</b>"},
		{"over cap", 4, 2, "• <b>f1.txt</b>\n• <b>f2.txt</b>\n... and 2 more items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(outcomes(tt.count), tt.limit))
		})
	}
}

func TestSummarize_DefaultCap(t *testing.T) {
	got := Summarize(outcomes(8), 0)
	assert.Contains(t, got, "f5.txt")
	assert.NotContains(t, got, "f6.txt")
	assert.Contains(t, got, "... and 3 more items")
}

func TestSummarize_Message(t *testing.T) {
	got := Summarize([]Outcome{{Path: "/a/b.txt", Message: "https://yadi.sk/d/b"}}, 5)
	assert.Equal(t, "• <b>b.txt</b> https://yadi.sk/d/b", got)
}

func TestFailureDetail(t *testing.T) {
	items := []Outcome{
		{Path: "/x/one", Err: errors.New(errors.ErrFileCopy, "disk full")},
		{Path: "/x/two", Err: fmt.Errorf("plain")},
		{Path: "/x/three", Err: errors.New(errors.ErrFileCopy, "again")},
		{Path: "/x/four", Err: errors.New(errors.ErrFileCopy, "and again")},
	}
	got := FailureDetail(items, 0)
	assert.Equal(t, "• <b>one</b>: disk full\n• <b>two</b>: plain\n• <b>three</b>: again\n... and 1 more items", got)
}

func TestResults_Classify(t *testing.T) {
	var r Results
	assert.Equal(t, OverallEmpty, r.Classify())
	assert.NoError(t, r.Err())

	r.Succeed("/a", "")
	assert.Equal(t, OverallSuccess, r.Classify())

	r.Fail("/b", errors.New(errors.ErrPublish, "nope"))
	assert.Equal(t, OverallPartial, r.Classify())
	assert.NoError(t, r.Err())
	assert.Len(t, r.Successes(), 1)
	assert.Len(t, r.Failures(), 1)
	assert.Equal(t, 2, r.Len())

	var bad Results
	bad.Fail("/c", errors.New(errors.ErrPublish, "nope"))
	bad.Fail("/d", errors.New(errors.ErrPublish, "nope"))
	assert.Equal(t, OverallFailure, bad.Classify())
	err := bad.Err()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrItemFailed))
}

func TestResults_KeepsInputOrder(t *testing.T) {
	var r Results
	r.Fail("/1", errors.New(errors.ErrPublish, "x"))
	r.Succeed("/2", "")
	r.Fail("/3", errors.New(errors.ErrPublish, "x"))

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"/1", "/2", "/3"}, []string{all[0].Path, all[1].Path, all[2].Path})
	assert.Equal(t, "failed", all[0].Status.String())
	assert.Equal(t, "partial", r.Classify().String())
}
