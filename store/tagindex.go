package store

// TagIndex is the derived secondary index from a normalized tag name to the
// set of note IDs currently carrying it. Buckets never persist empty: the
// last removal for a tag deletes its bucket, so Distinct and membership
// checks stay accurate without separate bookkeeping.
//
// TagIndex is not safe for concurrent use on its own; the owning store's
// mutex covers it together with the entity collection.
type TagIndex struct {
	buckets map[string]map[string]struct{}
}

func NewTagIndex() *TagIndex {
	return &TagIndex{buckets: make(map[string]map[string]struct{})}
}

// Add inserts id into tag's bucket, creating the bucket if absent.
// Adding an already-present pair is a no-op.
func (ti *TagIndex) Add(id, tag string) {
	bucket, ok := ti.buckets[tag]
	if !ok {
		bucket = make(map[string]struct{})
		ti.buckets[tag] = bucket
	}
	bucket[id] = struct{}{}
}

// Remove deletes id from tag's bucket and prunes the bucket once empty.
// Removing an absent pair is a no-op.
func (ti *TagIndex) Remove(id, tag string) {
	bucket, ok := ti.buckets[tag]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(ti.buckets, tag)
	}
}

// Bucket returns the ID set for an exact normalized tag, or nil when the
// tag has no members. Callers must not mutate the returned map.
func (ti *TagIndex) Bucket(tag string) map[string]struct{} {
	return ti.buckets[tag]
}

// Has reports whether tag currently has at least one member.
func (ti *TagIndex) Has(tag string) bool {
	return len(ti.buckets[tag]) > 0
}

// Count returns the number of IDs carrying tag.
func (ti *TagIndex) Count(tag string) int {
	return len(ti.buckets[tag])
}

// Distinct returns every tag with at least one member, recomputed from the
// live map on each call. Order is unspecified.
func (ti *TagIndex) Distinct() []string {
	tags := make([]string, 0, len(ti.buckets))
	for tag := range ti.buckets {
		tags = append(tags, tag)
	}
	return tags
}
