package hitcount

import (
	"cmp"
	"slices"
)

// Bucket is the set of websites that currently share one hit count.
type Bucket struct {
	Count    int64
	Websites []string
}

// Counter tracks hits per website for a single day. counts and byCount are
// kept in step on every AddHit: each website sits in exactly the bucket that
// matches its current count, and empty buckets are removed.
type Counter struct {
	counts  map[string]int64
	byCount map[int64]map[string]struct{}
	total   int64
}

func NewCounter() *Counter {
	return &Counter{
		counts:  map[string]int64{},
		byCount: map[int64]map[string]struct{}{},
	}
}

func (c *Counter) AddHit(website string) {
	old := c.counts[website]
	next := old + 1
	c.counts[website] = next
	c.total++

	if old > 0 {
		bucket := c.byCount[old]
		delete(bucket, website)
		if len(bucket) == 0 {
			delete(c.byCount, old)
		}
	}
	bucket, ok := c.byCount[next]
	if !ok {
		bucket = map[string]struct{}{}
		c.byCount[next] = bucket
	}
	bucket[website] = struct{}{}
}

// Count returns the hits recorded for website, 0 if unseen.
func (c *Counter) Count(website string) int64 { return c.counts[website] }

// Len is the number of distinct websites.
func (c *Counter) Len() int { return len(c.counts) }

// Total is the number of hits recorded.
func (c *Counter) Total() int64 { return c.total }

// Snapshot copies the buckets out, highest count first. Websites inside a
// bucket are in map iteration order.
func (c *Counter) Snapshot() []Bucket {
	out := make([]Bucket, 0, len(c.byCount))
	for count, set := range c.byCount {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		out = append(out, Bucket{Count: count, Websites: names})
	}
	slices.SortFunc(out, func(a, b Bucket) int { return cmp.Compare(b.Count, a.Count) })
	return out
}
