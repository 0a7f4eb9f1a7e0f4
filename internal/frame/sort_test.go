package frame

import (
	"testing"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderByNullPlacementAndStability(t *testing.T) {
	tbl, err := New(
		Col("id", models.KindInt, int64(2), nil, int64(1), int64(2), int64(1)),
		Col("sr", models.KindDouble, 50.0, 10.0, nil, 70.0, 120.0),
		Col("tag", models.KindString, "a", "b", "c", "d", "e"),
	)
	require.NoError(t, err)

	out, err := tbl.OrderBy(Asc("id"), Desc("sr")).Result()
	require.NoError(t, err)
	tags, _ := out.Values("tag")
	assert.Equal(t, []any{"b", "e", "c", "d", "a"}, tags)

	out, err = tbl.OrderBy(Asc("id").NullsLast()).Result()
	require.NoError(t, err)
	tags, _ = out.Values("tag")
	assert.Equal(t, []any{"c", "e", "a", "d", "b"}, tags, "equal keys keep input order")

	out, err = tbl.OrderBy(Desc("id")).Result()
	require.NoError(t, err)
	tags, _ = out.Values("tag")
	assert.Equal(t, []any{"a", "d", "c", "e", "b"}, tags)
}

func TestDropDuplicatesKeepsFirst(t *testing.T) {
	tbl, err := New(
		Col("id", models.KindInt, int64(1), int64(2), int64(1), nil, nil),
		Col("tag", models.KindString, "a", "b", "c", "d", "e"),
	)
	require.NoError(t, err)

	out, err := tbl.DropDuplicates("id").Result()
	require.NoError(t, err)
	tags, _ := out.Values("tag")
	assert.Equal(t, []any{"a", "b", "d"}, tags)

	again, err := out.DropDuplicates("id").Result()
	require.NoError(t, err)
	assert.Equal(t, out.Len(), again.Len())
}
