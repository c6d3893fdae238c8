package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		ongoing bool
		ok      bool
	}{
		{input: "2021-03-04", want: "2021-03-04", ok: true},
		{input: "2021-03", want: "2021-03-01", ok: true},
		{input: "March 2021", want: "2021-03-01", ok: true},
		{input: "Jan 2019", want: "2019-01-01", ok: true},
		{input: "03/2020", want: "2020-03-01", ok: true},
		{input: "Summer 2018", want: "2018-01-01", ok: true},
		{input: "2015 - 2017", want: "2015-01-01", ok: true},
		{input: "Present", ongoing: true, ok: true},
		{input: "PRESENT", ongoing: true, ok: true},
		{input: "", ongoing: true, ok: true},
		{input: "a while ago", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			if tt.ongoing {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseRequiredDate(t *testing.T) {
	_, ok := ParseRequiredDate("present")
	assert.False(t, ok)

	d, ok := ParseRequiredDate("2020")
	require.True(t, ok)
	assert.Equal(t, "2020-01-01", d.String())
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{input: "2016", want: 2016, ok: true},
		{input: "Class of 1999", want: 1999, ok: true},
		{input: "Sept 2012 - May 2016", want: 2012, ok: true},
		{input: "1850", ok: false},
		{input: "unknown", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			year, ok := ParseYear(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, year)
		})
	}
}

func TestParseEndDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "2021-03-04", want: "2021-03-04"},
		{input: "2021-06", want: "2021-06-30"},
		{input: "Feb 2024", want: "2024-02-29"},
		{input: "December 2020", want: "2020-12-31"},
		{input: "2022", want: "2022-12-31"},
		{input: "Fall 2021", want: "2021-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, ok := ParseEndDate(tt.input)
			require.True(t, ok)
			require.NotNil(t, d)
			assert.Equal(t, tt.want, d.String())
		})
	}

	d, ok := ParseEndDate("present")
	assert.True(t, ok)
	assert.Nil(t, d)
}
