package comparison

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcompare/internal/shared/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	parsed map[string]int
	failed []string
}

func (o *recordingObserver) DocumentParsed(_ context.Context, name, _ string, items int, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed = append(o.failed, name)
		return
	}
	o.parsed[name] = items
}

func TestEngineCompare(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	observer := &recordingObserver{parsed: map[string]int{}}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(logger, WithConcurrency(2), WithObserver(observer), WithClock(func() time.Time { return fixed }))

	xmlBid := testutil.XMLBid{
		Sender:   "Acme AS",
		Chapters: [][2]string{{"01", "RIGG OG DRIFT"}},
		Posts: []testutil.XMLPost{
			{ItemCode: "01.01", Text: "Rigg", Quantity: 1, UnitPrice: 900, Chapter: "01"},
			{ItemCode: "01.02", Text: "Ekstra", Quantity: 1, UnitPrice: 40, Option: true},
		},
	}

	docs := []Document{
		{Name: "acme.xml", Data: xmlBid.Bytes()},
		{Name: "tom.csv"},
		{Name: "b.csv", Data: testutil.SimpleCSVBid([3]string{"01.01", "1", "1000"})},
		{Name: "broken.xml", Data: []byte("<NS3459>")},
		{Name: "b.csv", Data: testutil.SimpleCSVBid([3]string{"01.01", "1", "1100"})},
	}

	result, err := engine.Compare(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme AS", "b.csv", "b.csv (2)"}, result.Providers())
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "tom.csv is empty.", result.Errors[0])
	assert.Contains(t, result.Errors[1], "Could not read broken.xml")
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, fixed, result.GeneratedAt)

	require.Len(t, result.Matrix.Rows, 1)
	row := result.Matrix.Rows[0]
	assert.Equal(t, "Acme AS", row.Winner)
	assert.True(t, result.Matrix.HasZScores)
	assert.Equal(t, "RIGG OG DRIFT", row.ChapterTitle)
	assert.Equal(t, "Rigg Og Drift", result.Titles["01"])

	assert.Equal(t, 1, observer.parsed["b.csv"])
	assert.Equal(t, 2, observer.parsed["acme.xml"])
	assert.Equal(t, []string{"broken.xml"}, observer.failed)

	opt, _ := result.Summary.OptionTotals.Get("Acme AS")
	assert.Equal(t, 40.0, opt)
	assert.Equal(t, "Acme AS", result.Summary.Winner.Name)

	assert.True(t, handler.ContainsMessage("comparison built"))
	assert.True(t, handler.ContainsAttr("component", "comparison"))
}

func TestEngineCompareNoValidBids(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	engine := NewEngine(logger)

	_, err := engine.Compare(context.Background(), []Document{
		{Name: "a.csv"},
		{Name: "b.xml", Data: []byte("<x/>")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValidBids))

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, []string{"a.csv is empty.", "No posts found in b.xml"}, batchErr.Errors)
}

func TestEngineCompareCancelled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	engine := NewEngine(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Compare(ctx, []Document{
		{Name: "a.csv", Data: testutil.SimpleCSVBid([3]string{"01.01", "1", "1"})},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineNameHint(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	engine := NewEngine(logger)

	result, err := engine.Compare(context.Background(), []Document{
		{Name: "tilbud_a.csv", NameHint: "tilbud_a", Data: testutil.SimpleCSVBid([3]string{"01.01", "1", "1"})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tilbud_a"}, result.Providers())
}

func TestEngineCompareKeepsInputOrder(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	engine := NewEngine(logger, WithConcurrency(8))

	var docs []Document
	names := []string{"e.csv", "d.csv", "c.csv", "b.csv", "a.csv", "f.csv"}
	for _, n := range names {
		docs = append(docs, Document{Name: n, Data: testutil.SimpleCSVBid([3]string{"01.01", "1", "10"})})
	}

	for i := 0; i < 5; i++ {
		result, err := engine.Compare(context.Background(), docs)
		require.NoError(t, err)
		assert.Equal(t, names, result.Providers())
		assert.Equal(t, "e.csv", result.Matrix.Rows[0].Winner)
	}
}
