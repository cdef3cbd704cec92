package service

import (
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/ludo-technologies/dsastcheck/domain"
)

// cachedReport is a file report together with the file state it was built from
type cachedReport struct {
	size    int64
	modTime time.Time
	report  *domain.FileReport
}

// ReportCache keeps per-file reports between watch-mode runs. An entry is
// valid while the file's size and modification time are unchanged.
type ReportCache struct {
	entries *lru.Cache[string, cachedReport]
}

// NewReportCache creates a cache holding at most size reports
func NewReportCache(size int) (*ReportCache, error) {
	cache, err := lru.New[string, cachedReport](size)
	if err != nil {
		return nil, err
	}
	return &ReportCache{entries: cache}, nil
}

// Get returns the cached report for path if the file is unchanged
func (c *ReportCache) Get(path string) (*domain.FileReport, bool) {
	entry, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() != entry.size || !info.ModTime().Equal(entry.modTime) {
		c.entries.Remove(path)
		return nil, false
	}
	return entry.report, true
}

// Put stores the report for path, stamped with the file's current state
func (c *ReportCache) Put(path string, report *domain.FileReport) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	c.entries.Add(path, cachedReport{
		size:    info.Size(),
		modTime: info.ModTime(),
		report:  report,
	})
}

// Invalidate drops the entry for path
func (c *ReportCache) Invalidate(path string) {
	c.entries.Remove(path)
}

// Purge drops every entry
func (c *ReportCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached reports
func (c *ReportCache) Len() int {
	return c.entries.Len()
}
