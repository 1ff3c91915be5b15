package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		name       string
		page       string
		limit      string
		wantNumber int
		wantSize   int
		wantOffset int
	}{
		{"defaults", "", "", 1, 10, 0},
		{"second page", "2", "10", 2, 10, 10},
		{"zero page", "0", "10", 1, 10, 0},
		{"negative page", "-3", "5", 1, 5, 0},
		{"zero limit", "3", "0", 3, 10, 20},
		{"negative limit", "2", "-1", 2, 10, 10},
		{"garbage", "abc", "x", 1, 10, 0},
		{"capped", "1", "1000", 1, MaxPageSize, 0},
		{"huge page", "9223372036854775807", "10", MaxPageNumber, 10, (MaxPageNumber - 1) * 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ParsePage(tc.page, tc.limit)
			assert.Equal(t, tc.wantNumber, p.Number)
			assert.Equal(t, tc.wantSize, p.Size)
			assert.Equal(t, tc.wantOffset, p.Offset())
		})
	}
}

func TestPageOffsetNeverNegative(t *testing.T) {
	p := Page{Number: -10, Size: -10}
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, DefaultPageSize, p.Limit())

	huge := Page{Number: math.MaxInt, Size: MaxPageSize}
	assert.GreaterOrEqual(t, huge.Offset(), 0)
	assert.Equal(t, MaxPageNumber, huge.Normalize().Number)
}

func TestNewVideoQuery(t *testing.T) {
	q := NewVideoQuery("  cats ", "", "views", "asc", Page{})
	assert.Equal(t, "cats", q.Query)
	assert.Equal(t, VideoSortViews, q.SortBy)
	assert.True(t, q.Ascending)
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, q.Page)

	q = NewVideoQuery("", "", "password", "", Page{Number: 2, Size: 5})
	assert.Equal(t, VideoSortCreatedAt, q.SortBy)
	assert.False(t, q.Ascending)
	assert.Equal(t, 5, q.Page.Offset())
}

func TestTaskStatusValid(t *testing.T) {
	assert.True(t, TaskStatusToDo.Valid())
	assert.True(t, TaskStatusInProgress.Valid())
	assert.True(t, TaskStatusCompleted.Valid())
	assert.False(t, TaskStatus("Done").Valid())
}
