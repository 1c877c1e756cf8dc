package view

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/branch-search/branch"
)

func TestBindBeforeMarkupExists(t *testing.T) {
	b := NewBinder()
	assert.Equal(t, 0, b.Bind("", nil))
	assert.ErrorIs(t, b.Click(context.Background(), "4010"), ErrNotBound)
}

func TestRebindReplacesHandlers(t *testing.T) {
	b := NewBinder()
	markup := List([]branch.Record{austin()})

	var first, second atomic.Int32
	for i := 0; i < 5; i++ {
		b.Bind(markup, func(context.Context, string) error { first.Add(1); return nil })
	}
	b.Bind(markup, func(context.Context, string) error { second.Add(1); return nil })

	require.NoError(t, b.Click(context.Background(), "4010"))
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
	assert.Equal(t, 1, b.Bound())
}

func TestRebindDropsCardsNoLongerShown(t *testing.T) {
	b := NewBinder()
	noop := func(context.Context, string) error { return nil }
	b.Bind(List([]branch.Record{austin()}), noop)
	b.Bind(Detail([]branch.Record{austin()}, ""), noop)

	assert.ErrorIs(t, b.Click(context.Background(), "4010"), ErrNotBound)
	assert.Equal(t, 0, b.Bound())
}

func TestClickPassesCode(t *testing.T) {
	b := NewBinder()
	var got string
	b.Bind(List([]branch.Record{austin()}), func(_ context.Context, code string) error {
		got = code
		return nil
	})
	require.NoError(t, b.Click(context.Background(), "4010"))
	assert.Equal(t, "4010", got)
}

func TestCardCodesFallsBackToTitleText(t *testing.T) {
	legacy := `<div class="branchCard other"><h2 class="title">615</h2><div>1 Elm Tulsa, OK</div></div>`
	assert.Equal(t, []string{"615"}, CardCodes(legacy))
	assert.Equal(t, "615", CardCode(legacy))
	assert.Equal(t, "", CardCode("<p>no cards</p>"))
}

func TestCardCodeBreaksAtLineBreaksAndBlocks(t *testing.T) {
	assert.Equal(t, "AUS1", CardCode(`<div class="branchCard">AUS1<br>Austin, TX</div>`))
	assert.Equal(t, "75", CardCode(`<div class="branchCard"><p>75</p><p>Dallas</p></div>`))
	assert.Equal(t, "75 North", CardCode(`<div class="branchCard"><span>75</span> <b>North</b><div>Dallas</div></div>`))
}
