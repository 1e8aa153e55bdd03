package table

import (
	"sort"
	"time"
)

// Table is the in-memory activity table: one row per athlete per day plus
// the schema the loader resolved. Each (athlete, date) pair appears at most
// once; duplicate handling belongs to the upstream loader.
type Table struct {
	Schema Schema
	Rows   []Record
}

// New builds a table over rows with the given schema.
func New(schema Schema, rows []Record) *Table {
	return &Table{Schema: schema, Rows: rows}
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}

// SortByAthleteDate returns a copy of the table sorted ascending by
// (athlete, date). The sort is stable: same-athlete date ties keep their
// input order, so windowed statistics are reproducible.
func (t *Table) SortByAthleteDate() *Table {
	rows := make([]Record, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AthleteID != rows[j].AthleteID {
			return rows[i].AthleteID < rows[j].AthleteID
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return &Table{Schema: t.Schema, Rows: rows}
}

// Athletes returns the distinct athlete IDs in first-seen order.
func (t *Table) Athletes() []string {
	seen := make(map[string]bool, len(t.Rows))
	var ids []string
	for _, r := range t.Rows {
		if !seen[r.AthleteID] {
			seen[r.AthleteID] = true
			ids = append(ids, r.AthleteID)
		}
	}
	return ids
}

// FilterAthlete returns the rows for one athlete, preserving input order.
func (t *Table) FilterAthlete(athleteID string) *Table {
	var rows []Record
	for _, r := range t.Rows {
		if r.AthleteID == athleteID {
			rows = append(rows, r)
		}
	}
	return &Table{Schema: t.Schema, Rows: rows}
}

// DateRange returns the earliest and latest dates in the table. ok is false
// for an empty table.
func (t *Table) DateRange() (start, end time.Time, ok bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = t.Rows[0].Date, t.Rows[0].Date
	for _, r := range t.Rows[1:] {
		if r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}
	return start, end, true
}
