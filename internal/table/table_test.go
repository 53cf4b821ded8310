package table

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryCSV = "\ufeffproduct_id,current_stock,reorder_point,priority,sla_breach\n" +
	"P1,10,20,HIGH,true\n" +
	"P2,50,20,LOW,False\n" +
	"P3,5,15,HIGH,1\n" +
	"P4,,10,MEDIUM,\n"

func parse(t *testing.T, s string) *Table {
	t.Helper()

	tbl, err := Parse(strings.NewReader(s))
	require.NoError(t, err)

	return tbl
}

func TestParse(t *testing.T) {
	tbl := parse(t, inventoryCSV)

	assert.Equal(t, 4, tbl.Len())
	assert.True(t, tbl.Has("product_id", "current_stock"))
	assert.False(t, tbl.Has("product_id", "missing"))
	assert.Equal(t, "product_id", tbl.Columns()[0])

	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte(inventoryCSV), 0o600))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRowAccessors(t *testing.T) {
	tbl := parse(t, inventoryCSV)
	r := tbl.Row(0)

	assert.Equal(t, "P1", r.String("product_id"))
	assert.Equal(t, "N/A", r.StringOr("missing", "N/A"))

	f, ok := r.Float("current_stock")
	assert.True(t, ok)
	assert.Equal(t, 10.0, f)

	i, ok := r.Int("reorder_point")
	assert.True(t, ok)
	assert.Equal(t, int64(20), i)

	_, ok = tbl.Row(3).Float("current_stock")
	assert.False(t, ok)
	assert.Equal(t, 7.0, tbl.Row(3).FloatOr("current_stock", 7))

	assert.True(t, r.Bool("sla_breach"))
	assert.False(t, tbl.Row(1).Bool("sla_breach"))
	assert.True(t, tbl.Row(2).Bool("sla_breach"))
	assert.Equal(t, "HIGH", r.Map()["priority"])
}

func TestFilterWhereHead(t *testing.T) {
	tbl := parse(t, inventoryCSV)

	low := tbl.Filter(func(r Row) bool {
		s, ok1 := r.Float("current_stock")
		p, ok2 := r.Float("reorder_point")

		return ok1 && ok2 && s <= p
	})
	assert.Equal(t, 2, low.Len())

	assert.Equal(t, 3, tbl.Where("priority", "HIGH", "MEDIUM").Len())
	assert.Equal(t, 0, tbl.Where("missing", "HIGH").Len())
	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 4, tbl.Head(10).Len())
	assert.True(t, tbl.Head(-1).Empty())
}

func TestCountBy(t *testing.T) {
	tbl := parse(t, "status\nON_TIME\nDELAYED\nON_TIME\nBLOCKED\nDELAYED\nON_TIME\n\n")

	assert.Equal(t, []Count{{"ON_TIME", 3}, {"DELAYED", 2}, {"BLOCKED", 1}}, tbl.CountBy("status"))
}

func TestAggregates(t *testing.T) {
	tbl := parse(t, "product_id,demand,date\nA,2,2024-01-02\nA,4,2024-01-01\nB,4,2024-01-03\nB,x,\n")

	assert.Equal(t, 10.0, tbl.Sum("demand"))

	mean, ok := tbl.Mean("demand")
	assert.True(t, ok)
	assert.InDelta(t, 3.333, mean, 0.001)

	std, ok := tbl.Std("demand")
	assert.True(t, ok)
	assert.InDelta(t, 1.1547, std, 0.0001)

	_, ok = tbl.Mean("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "B"}, tbl.Unique("product_id"))
	assert.Equal(t, "2024-01-01", tbl.Min("date"))
	assert.Equal(t, "2024-01-03", tbl.Max("date"))
}

func TestSortBy(t *testing.T) {
	tbl := parse(t, "id,change\na,5\nb,x\nc,30\nd,5\n")

	desc := tbl.SortBy("change", true)
	ids := make([]string, 0, desc.Len())
	for _, r := range desc.Rows() {
		ids = append(ids, r.String("id"))
	}

	assert.Equal(t, []string{"c", "a", "d", "b"}, ids)
}
