package crontab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Table
	}{
		{name: "empty", in: "", want: Table{}},
		{name: "single newline", in: "\n", want: Table{}},
		{
			name: "trailing newline",
			in:   "0 1 * * * foo/X.py\nother line\n",
			want: Table{"0 1 * * * foo/X.py", "other line"},
		},
		{
			name: "no trailing newline",
			in:   "# comment\nMAILTO=ops",
			want: Table{"# comment", "MAILTO=ops"},
		},
		{
			name: "crlf",
			in:   "a\r\nb\r\n",
			want: Table{"a", "b"},
		},
		{
			name: "blank lines kept",
			in:   "a\n\nb\n",
			want: Table{"a", "", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTable([]byte(tt.in)))
		})
	}
}

func TestTable_Bytes(t *testing.T) {
	assert.Equal(t, []byte{}, Table{}.Bytes())
	assert.Equal(t, "a\nb\n", string(Table{"a", "b"}.Bytes()))

	original := "# m h dom mon dow command\n0 1 * * * foo/X.py\n\nother line\n"
	assert.Equal(t, original, string(ParseTable([]byte(original)).Bytes()))
}

func TestTable_HasMatch(t *testing.T) {
	m := NewSubstringMatcher("X")

	assert.False(t, Table{}.HasMatch(m))
	assert.False(t, Table{"other line"}.HasMatch(m))
	assert.True(t, Table{"other line", "0 1 * * * foo/X.py"}.HasMatch(m))
}

func TestTable_Matching(t *testing.T) {
	table := Table{"0 1 * * * foo/X.py", "other", "0 3 * * * bar/X.py"}

	got := table.Matching(NewSubstringMatcher("X"))
	assert.Equal(t, []Entry{"0 1 * * * foo/X.py", "0 3 * * * bar/X.py"}, got)
	assert.Nil(t, table.Matching(NewSubstringMatcher("missing")))
}

func TestTable_RemoveMatching(t *testing.T) {
	table := Table{"0 1 * * * foo/X.py", "other line", "0 3 * * * foo/X.py", "last"}

	got := table.RemoveMatching(NewSubstringMatcher("X"))

	assert.Equal(t, Table{"other line", "last"}, got)
	// receiver untouched
	assert.Len(t, table, 4)
	assert.Equal(t, Entry("0 1 * * * foo/X.py"), table[0])
}

func TestTable_Append(t *testing.T) {
	table := Table{"other line"}

	got := table.Append("0 2 * * * foo/X.py")

	assert.Equal(t, Table{"other line", "0 2 * * * foo/X.py"}, got)
	assert.Equal(t, Table{"other line"}, table)

	assert.Equal(t, Table{"x"}, Table(nil).Append("x"))
}

func TestTable_AppendDoesNotAlias(t *testing.T) {
	base := make(Table, 1, 4)
	base[0] = "a"

	first := base.Append("b")
	second := base.Append("c")

	assert.Equal(t, Table{"a", "b"}, first)
	assert.Equal(t, Table{"a", "c"}, second)
}

func TestTable_Clone(t *testing.T) {
	table := Table{"a", "b"}
	clone := table.Clone()
	clone[0] = "z"

	assert.Equal(t, Table{"a", "b"}, table)
	assert.Equal(t, Table{"z", "b"}, clone)
}

func TestEntry_IsComment(t *testing.T) {
	assert.True(t, Entry("# comment").IsComment())
	assert.True(t, Entry("   ").IsComment())
	assert.True(t, Entry("  #x").IsComment())
	assert.False(t, Entry("0 1 * * * cmd").IsComment())
}
