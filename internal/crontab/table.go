// Package crontab provides the schedule table model and the persistent stores
// it is read from and written to.
//
// A Table is an ordered list of crontab lines. Every mutation returns a new
// Table and leaves the receiver untouched, so callers can hold the loaded copy
// and only commit it back when the whole change is decided.
package crontab

import (
	"strings"
)

// Entry is a single crontab line, e.g. "0 2 * * * /usr/bin/python3 job.py >> job.log 2>&1".
// Its structure is not interpreted for matching.
type Entry string

// String returns the raw line.
func (e Entry) String() string {
	return string(e)
}

// IsComment reports whether the line is a comment or blank.
func (e Entry) IsComment() bool {
	trimmed := strings.TrimSpace(string(e))
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// Table is the ordered content of a crontab.
type Table []Entry

// ParseTable разбирает содержимое crontab на строки.
// Завершающий перевод строки не порождает пустую запись.
func ParseTable(data []byte) Table {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return Table{}
	}

	lines := strings.Split(text, "\n")
	table := make(Table, 0, len(lines))
	for _, line := range lines {
		table = append(table, Entry(line))
	}
	return table
}

// Bytes renders the table in crontab format. A non-empty table always ends
// with a newline, cron ignores the last line otherwise.
func (t Table) Bytes() []byte {
	if len(t) == 0 {
		return []byte{}
	}

	var b strings.Builder
	for _, e := range t {
		b.WriteString(string(e))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// HasMatch reports whether any entry is matched by m.
func (t Table) HasMatch(m Matcher) bool {
	for _, e := range t {
		if m.Match(e) {
			return true
		}
	}
	return false
}

// Matching returns every entry matched by m, in table order.
func (t Table) Matching(m Matcher) []Entry {
	var out []Entry
	for _, e := range t {
		if m.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// RemoveMatching returns a new table without any entry matched by m.
// All matches are removed, not just the first one.
func (t Table) RemoveMatching(m Matcher) Table {
	out := make(Table, 0, len(t))
	for _, e := range t {
		if m.Match(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Append returns a new table with e added at the end.
func (t Table) Append(e Entry) Table {
	out := make(Table, len(t), len(t)+1)
	copy(out, t)
	return append(out, e)
}
