package crontab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatcher(t *testing.T) {
	tests := []struct {
		name     string
		mode     MatchMode
		marker   string
		wantType Matcher
		wantErr  bool
	}{
		{name: "default mode", mode: "", marker: "X", wantType: &SubstringMatcher{}},
		{name: "substring", mode: MatchSubstring, marker: "X", wantType: &SubstringMatcher{}},
		{name: "field", mode: MatchField, marker: "X", wantType: &FieldMatcher{}},
		{name: "regexp", mode: MatchRegexp, marker: `auto_update\.py$`, wantType: &RegexpMatcher{}},
		{name: "bad regexp", mode: MatchRegexp, marker: "(", wantErr: true},
		{name: "unknown mode", mode: "glob", marker: "X", wantErr: true},
		{name: "empty marker", mode: MatchSubstring, marker: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.mode, tt.marker)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, m)
			assert.Equal(t, tt.marker, m.Marker())
		})
	}
}

func TestMatchModeList(t *testing.T) {
	assert.Equal(t, "substring, field, regexp", MatchModeList())

	_, err := NewMatcher("glob", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected: substring, field, regexp")
}

func TestSubstringMatcher(t *testing.T) {
	m := NewSubstringMatcher("auto_update.py")

	assert.True(t, m.Match("0 2 * * * /usr/bin/python3 /srv/ott/auto_update.py >> /srv/ott/logs/cron.log 2>&1"))
	assert.True(t, m.Match("# old: auto_update.py"))
	assert.True(t, m.Match("0 5 * * * /usr/bin/python3 /srv/other/auto_update.py.bak"))
	assert.False(t, m.Match("0 5 * * * /usr/bin/python3 /srv/ott/scrapper.py"))
}

func TestSubstringMatcher_UnicodeNormalization(t *testing.T) {
	// "é" precomposed vs "e" + combining acute accent
	composed := "/srv/caf\u00e9/auto_update.py"
	decomposed := "/srv/cafe\u0301/auto_update.py"

	m := NewSubstringMatcher(composed)
	assert.True(t, m.Match(Entry("0 2 * * * python3 "+decomposed)))
}

func TestFieldMatcher(t *testing.T) {
	m := NewFieldMatcher("auto_update.py")

	assert.True(t, m.Match("0 2 * * * /usr/bin/python3 /srv/ott/auto_update.py >> /tmp/log 2>&1"))
	assert.True(t, m.Match("@daily python3 auto_update.py"))
	assert.True(t, m.Match(`0 2 * * * /usr/bin/python3 '/home/Jane Doe/auto_update.py' >> '/tmp/a b.log' 2>&1`))
	assert.False(t, m.Match("# 0 2 * * * python3 /srv/ott/auto_update.py"))
	assert.False(t, m.Match("0 5 * * * python3 /srv/ott/auto_update.py.bak"))
	assert.False(t, m.Match("0 5 * * * python3 /srv/ott/not_auto_update.py"))
}

func TestRegexpMatcher(t *testing.T) {
	m, err := NewRegexpMatcher(`/ott[^ ]*/auto_update\.py( |$)`)
	require.NoError(t, err)

	assert.True(t, m.Match("0 2 * * * python3 /srv/ott-release-backend/auto_update.py >> log 2>&1"))
	assert.False(t, m.Match("0 2 * * * python3 /srv/other/auto_update.py"))
}
