package config

import (
	"fmt"
	"sort"
	"time"
)

// ChangelogEntry describes what changed, and by whom.
type ChangelogEntry struct {
	Author string `toml:"author" yaml:"author"`
	Entry  string `toml:"entry" yaml:"entry"`
}

// Changelog maps a point in time to an entry.
type Changelog map[string]ChangelogEntry

// ChangelogRecord is an entry with its key parsed.
type ChangelogRecord struct {
	Key  string
	Time time.Time
	ChangelogEntry
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a changelog key. Keys without a zone are UTC.
func ParseTimestamp(key string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("changelog key %q is not a timestamp (want e.g. 2006-01-02T15:04:05)", key)
}

// Records returns the entries ordered by time, oldest first.
func (c Changelog) Records() ([]ChangelogRecord, error) {
	records := make([]ChangelogRecord, 0, len(c))
	for _, key := range SortedKeys(c) {
		t, err := ParseTimestamp(key)
		if err != nil {
			return nil, err
		}
		records = append(records, ChangelogRecord{Key: key, Time: t, ChangelogEntry: c[key]})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
	return records, nil
}

// Unix32 returns t as seconds since the epoch wrapped into an int32, which is
// the width of the RPM changelog time tag. Times after 2038-01-19T03:14:07Z
// wrap around to negative values.
func Unix32(t time.Time) int32 {
	return int32(t.Unix())
}
