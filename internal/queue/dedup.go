package queue

import (
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	fingerprintPrefixLen = 30
	defaultDedupTTL      = 5 * time.Minute
	defaultDedupCap      = 100
)

// Fingerprint computes a cheap content fingerprint for dedup purposes:
// the first 30 characters of the normalized (trimmed, lower-cased) text plus
// its character count. Both halves count runes, so multi-byte text
// fingerprints the same as ASCII.
func Fingerprint(text string) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	prefix := norm
	count := 0
	for i := range norm {
		if count == fingerprintPrefixLen {
			prefix = norm[:i]
			break
		}
		count++
	}
	return prefix + "-" + strconv.Itoa(utf8.RuneCountInString(norm))
}

// Deduper suppresses duplicate outbound calls for text the system has already
// processed recently. Entries expire after the TTL; a hard cap on map size
// evicts the oldest half when exceeded.
type Deduper struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]time.Time
	now        func() time.Time
}

// NewDeduper creates a Deduper with the given TTL and entry cap. Zero values
// select the defaults (5 minutes, 100 entries).
func NewDeduper(ttl time.Duration, maxEntries int) *Deduper {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultDedupCap
	}
	return &Deduper{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    map[string]time.Time{},
		now:        time.Now,
	}
}

// Seen reports whether text was processed within the TTL, recording it if not.
func (d *Deduper) Seen(text string) bool {
	fp := Fingerprint(text)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.cleanupLocked(now)

	if at, ok := d.entries[fp]; ok && now.Sub(at) < d.ttl {
		return true
	}

	d.entries[fp] = now
	if len(d.entries) > d.maxEntries {
		d.evictOldestHalfLocked()
	}
	return false
}

// Len returns the current number of tracked fingerprints.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *Deduper) cleanupLocked(now time.Time) {
	for fp, at := range d.entries {
		if now.Sub(at) >= d.ttl {
			delete(d.entries, fp)
		}
	}
}

func (d *Deduper) evictOldestHalfLocked() {
	type entry struct {
		fp string
		at time.Time
	}
	all := make([]entry, 0, len(d.entries))
	for fp, at := range d.entries {
		all = append(all, entry{fp, at})
	}
	// partial selection is not worth it at this size
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].at.Before(all[i].at) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	for i := 0; i < len(all)/2; i++ {
		delete(d.entries, all[i].fp)
	}
}
