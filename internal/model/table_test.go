package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tb := NewTable("代码", "名称", "最新价")
	require.NoError(t, tb.Append("000001", "平安银行", 12.5))
	require.NoError(t, tb.Append("600000", "浦发银行", 8.1))
	return tb
}

func TestTable_AppendRejectsWrongWidth(t *testing.T) {
	tb := NewTable("a", "b")
	err := tb.Append(1)
	require.Error(t, err)
	assert.Equal(t, 0, tb.Len())
}

func TestTable_Empty(t *testing.T) {
	var nilTable *Table
	assert.True(t, nilTable.Empty())
	assert.True(t, NewTable().Empty())
	assert.True(t, NewTable("a").Empty())
	assert.False(t, sampleTable(t).Empty())
}

func TestTable_ValueAndColumn(t *testing.T) {
	tb := sampleTable(t)

	assert.Equal(t, "平安银行", tb.Value(0, "名称"))
	assert.Nil(t, tb.Value(0, "总市值"))
	assert.Nil(t, tb.Value(5, "名称"))
	assert.Equal(t, []any{12.5, 8.1}, tb.Column("最新价"))
	assert.Nil(t, tb.Column("总市值"))
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tb := sampleTable(t)
	c := tb.Clone()
	c.Rows[0][2] = 99.0
	c.Columns[0] = "code"

	assert.Equal(t, 12.5, tb.Value(0, "最新价"))
	assert.True(t, tb.HasColumn("代码"))
}

func TestTable_SelectKeepsRequestedOrder(t *testing.T) {
	tb := sampleTable(t)
	s := tb.Select("名称", "不存在", "代码")

	assert.Equal(t, []string{"名称", "代码"}, s.Columns)
	assert.Equal(t, []any{"浦发银行", "600000"}, s.Rows[1])
}

func TestTable_RenameReturnsCopy(t *testing.T) {
	tb := sampleTable(t)
	r := tb.Rename(map[string]string{"代码": "code", "最新价": "price"})

	assert.Equal(t, []string{"code", "名称", "price"}, r.Columns)
	assert.Equal(t, []string{"代码", "名称", "最新价"}, tb.Columns)
}

func TestTable_AddColumn(t *testing.T) {
	tb := sampleTable(t)
	require.NoError(t, tb.AddColumn("连板数", []any{int64(1), int64(2)}))
	assert.Equal(t, int64(2), tb.Value(1, "连板数"))

	require.NoError(t, tb.AddColumn("最新价", []any{1.0, 2.0}))
	assert.Equal(t, 2.0, tb.Value(1, "最新价"))
	assert.Len(t, tb.Columns, 4)

	assert.Error(t, tb.AddColumn("x", []any{1}))
}
