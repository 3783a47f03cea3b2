package luatable

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_NestedTable(t *testing.T) {
	src := `
debriefing = {
	["mission_time"] = 1234.5,
	["ok"] = true,
	["events"] = {
		[1] = { ["type"] = "dead", ["initiator"] = "unit|2|10|T-72B" },
		[2] = { ["type"] = "hit", ["t"] = 12 },
	},
}
`
	got, err := Decode(context.Background(), src)
	require.NoError(t, err)

	want := Table{
		"debriefing": Table{
			"mission_time": 1234.5,
			"ok":           true,
			"events": Table{
				"1": Table{"type": "dead", "initiator": "unit|2|10|T-72B"},
				"2": Table{"type": "hit", "t": 12.0},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_ArrayPartAndMultipleGlobals(t *testing.T) {
	got, err := Decode(context.Background(), `a = {"x", "y"}; b = 3`)
	require.NoError(t, err)

	a, ok := got.Sub("a")
	require.True(t, ok)
	assert.Equal(t, Table{"1": "x", "2": "y"}, a)

	s, ok := got.String("b")
	require.True(t, ok)
	assert.Equal(t, "3", s)
}

func TestDecode_DropsFunctions(t *testing.T) {
	got, err := Decode(context.Background(), `t = { f = function() end, n = "kept" }`)
	require.NoError(t, err)
	sub, _ := got.Sub("t")
	assert.Equal(t, Table{"n": "kept"}, sub)
}

func TestDecode_SyntaxError(t *testing.T) {
	_, err := Decode(context.Background(), "events = {\n  initiator\t=\t\"unit|1|2|X\"\n  ]]")
	assert.Error(t, err)
}

func TestDecode_NoStandardLibraries(t *testing.T) {
	_, err := Decode(context.Background(), `x = os.getenv("HOME")`)
	assert.Error(t, err, "os library must not be reachable")
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(context.Background(), "-- nothing here\n")
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestDecode_SelfReference(t *testing.T) {
	_, err := Decode(context.Background(), `t = {}; t.self = t`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "self-referencing")
}

func TestDecode_ContextCancelsRunawayChunk(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Decode(ctx, `while true do end`)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTable_SortedKeys(t *testing.T) {
	tbl := Table{"10": 1.0, "2": 1.0, "b": 1.0, "a": 1.0, "1": 1.0}
	assert.Equal(t, []string{"1", "2", "10", "a", "b"}, tbl.SortedKeys())
}

func TestTable_StringKinds(t *testing.T) {
	tbl := Table{"s": "v", "n": 2.5, "b": true, "t": Table{}}

	s, ok := tbl.String("s")
	assert.True(t, ok)
	assert.Equal(t, "v", s)

	s, ok = tbl.String("n")
	assert.True(t, ok)
	assert.Equal(t, "2.5", s)

	_, ok = tbl.String("b")
	assert.False(t, ok)
	_, ok = tbl.String("t")
	assert.False(t, ok)
	_, ok = tbl.String("missing")
	assert.False(t, ok)
}
