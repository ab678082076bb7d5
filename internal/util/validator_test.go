package util

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(s)
		assert.Error(t, err, "ParseID(%q)", s)
	}
}

func TestParseOptionalID(t *testing.T) {
	id, err := ParseOptionalID("")
	assert.NoError(t, err)
	assert.True(t, id == nil)

	id, err = ParseOptionalID("7")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), *id)

	_, err = ParseOptionalID("x")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	assert.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = ParseOptionalDate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	// 格式错误
	for _, s := range []string{"2024/01/01", "2024-1-1", "2023-02-29", "2024-01-32"} {
		_, err := ParseOptionalDate(s)
		assert.Error(t, err, "ParseOptionalDate(%q)", s)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, DefaultPageSize},
		{"3", "50", 3, 50},
		{"-1", "0", 1, DefaultPageSize},
		{"2", "1000", 2, DefaultPageSize},
		{"x", "y", 1, DefaultPageSize},
	}
	for _, tt := range tests {
		page, size := ParsePage(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantSize, size)
	}
}
