package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkNoteIndexConsistency verifies the two-way invariant between the note
// collection and the tag index: every tag on every note is indexed, and
// every indexed (tag, id) pair points to a live note that still lists the
// tag.
func checkNoteIndexConsistency(t *testing.T, ns *NoteStore) {
	t.Helper()
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	for id, note := range ns.notes {
		for _, tag := range note.Tags {
			bucket := ns.index.Bucket(tag)
			require.Contains(t, bucket, id, "note %s tag %q missing from index", id, tag)
		}
	}
	for _, tag := range ns.index.Distinct() {
		require.NotEmpty(t, ns.index.Bucket(tag), "empty bucket %q survived", tag)
		for id := range ns.index.Bucket(tag) {
			note, ok := ns.notes[id]
			require.True(t, ok, "index references deleted note %s", id)
			require.Contains(t, note.Tags, tag, "index lists %q for note %s which no longer carries it", tag, id)
		}
	}
}

func TestNoteStore_CreateNormalizesAndDeduplicatesTags(t *testing.T) {
	ns := NewNoteStore()

	note, err := ns.Create("Hello world", []string{"Work", "WORK", "  work  "})
	require.NoError(t, err)

	assert.Equal(t, []string{"work"}, note.Tags)
	assert.True(t, strings.HasPrefix(note.ID, "n_"))
	assert.Len(t, note.ID, len("n_")+6)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	checkNoteIndexConsistency(t, ns)
}

func TestNoteStore_CreateRejectsEmptyContent(t *testing.T) {
	ns := NewNoteStore()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := ns.Create(content, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "Content cannot be empty")
	}
}

func TestNoteStore_CreateTrimsContent(t *testing.T) {
	ns := NewNoteStore()

	note, err := ns.Create("  padded  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "padded", note.Content)
}

func TestNoteStore_CreateTagLengthBoundary(t *testing.T) {
	ns := NewNoteStore()

	exactly32 := strings.Repeat("a", 32)
	note, err := ns.Create("content", []string{exactly32})
	require.NoError(t, err)
	assert.Equal(t, []string{exactly32}, note.Tags)

	tooLong := strings.Repeat("b", 33)
	_, err = ns.Create("content", []string{tooLong})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "exceeds 32 characters")
}

func TestNoteStore_CreateRejectsTooManyTags(t *testing.T) {
	ns := NewNoteStore()

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = strings.Repeat(string(rune('a'+i)), 3)
	}
	_, err := ns.Create("content", tags)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	// duplicates collapse before the count check
	note, err := ns.Create("content", append(tags[:10], "AAA"))
	require.NoError(t, err)
	assert.Len(t, note.Tags, 10)
}

func TestNoteStore_CreateChecksLengthBeforeCount(t *testing.T) {
	ns := NewNoteStore()

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = strings.Repeat(string(rune('a'+i)), 3)
	}
	tags[10] = strings.Repeat("z", 40)

	// both violations present: the length error surfaces on create
	_, err := ns.Create("content", tags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 32 characters")
}

func TestNoteStore_GetUnknown(t *testing.T) {
	ns := NewNoteStore()
	_, err := ns.Get("n_ffffff")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteStore_UpdateContent(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("original", []string{"keep"})
	require.NoError(t, err)

	// force a visible gap so the bump is observable
	ns.mu.Lock()
	ns.notes[note.ID].CreatedAt = "2024-01-01T00:00:00.000Z"
	ns.notes[note.ID].UpdatedAt = "2024-01-01T00:00:00.000Z"
	ns.mu.Unlock()

	updated, err := ns.UpdateContent(note.ID, "  edited  ")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, []string{"keep"}, updated.Tags)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, updated.CreatedAt)

	_, err = ns.UpdateContent(note.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ns.UpdateContent("n_ffffff", "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteStore_AddTagsAppendsInSuppliedOrder(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"first"})
	require.NoError(t, err)

	updated, err := ns.AddTags(note.ID, []string{" Second ", "THIRD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, updated.Tags)
	checkNoteIndexConsistency(t, ns)
}

func TestNoteStore_AddTagsIdempotentForExisting(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"work"})
	require.NoError(t, err)

	ns.mu.Lock()
	ns.notes[note.ID].UpdatedAt = "2024-01-01T00:00:00.000Z"
	ns.mu.Unlock()

	updated, err := ns.AddTags(note.ID, []string{"WORK", "  work "})
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, updated.Tags)
	// zero new tags were added, so updatedAt must not move
	assert.Equal(t, "2024-01-01T00:00:00.000Z", updated.UpdatedAt)
	checkNoteIndexConsistency(t, ns)
}

func TestNoteStore_AddTagsWhitespaceOnlyIsNoOp(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"a"})
	require.NoError(t, err)

	updated, err := ns.AddTags(note.ID, []string{"   ", "\t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, updated.Tags)
}

func TestNoteStore_AddTagsLimit(t *testing.T) {
	ns := NewNoteStore()
	tags := make([]string, 10)
	for i := range tags {
		tags[i] = strings.Repeat(string(rune('a'+i)), 2)
	}
	note, err := ns.Create("content", tags)
	require.NoError(t, err)

	_, err = ns.AddTags(note.ID, []string{"eleventh"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Tag limit exceeded")

	// duplicates of existing tags do not count toward the limit
	updated, err := ns.AddTags(note.ID, []string{"AA", "bb"})
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 10)
}

func TestNoteStore_AddTagsChecksLengthBeforeLimit(t *testing.T) {
	ns := NewNoteStore()
	tags := make([]string, 10)
	for i := range tags {
		tags[i] = strings.Repeat(string(rune('a'+i)), 2)
	}
	note, err := ns.Create("content", tags)
	require.NoError(t, err)

	_, err = ns.AddTags(note.ID, []string{strings.Repeat("x", 33)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 32 characters")
}

func TestNoteStore_RemoveTagRoundTrip(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"a", "b"})
	require.NoError(t, err)

	added, err := ns.AddTags(note.ID, []string{"temp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "temp"}, added.Tags)

	removed, err := ns.RemoveTag(note.ID, "temp")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, removed.Tags)
	checkNoteIndexConsistency(t, ns)
}

func TestNoteStore_RemoveTagCaseInsensitive(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"mytag"})
	require.NoError(t, err)

	removed, err := ns.RemoveTag(note.ID, "MYTAG")
	require.NoError(t, err)
	assert.Empty(t, removed.Tags)
	checkNoteIndexConsistency(t, ns)
}

func TestNoteStore_RemoveTagErrors(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"present"})
	require.NoError(t, err)

	_, err = ns.RemoveTag("n_ffffff", "present")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Note not found")

	_, err = ns.RemoveTag(note.ID, "absent")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "tag not found on this note")
}

func TestNoteStore_DeletePurgesIndex(t *testing.T) {
	ns := NewNoteStore()
	solo, err := ns.Create("only one", []string{"solo"})
	require.NoError(t, err)

	a, err := ns.Create("first", []string{"shared"})
	require.NoError(t, err)
	b, err := ns.Create("second", []string{"shared"})
	require.NoError(t, err)

	require.NoError(t, ns.Delete(solo.ID))
	assert.NotContains(t, ns.TagCounts(), "solo")

	require.NoError(t, ns.Delete(a.ID))
	counts := ns.TagCounts()
	assert.Equal(t, 1, counts["shared"])

	notes, total := ns.List(NoteListOptions{Tag: "shared"})
	assert.Equal(t, 1, total)
	require.Len(t, notes, 1)
	assert.Equal(t, b.ID, notes[0].ID)
	checkNoteIndexConsistency(t, ns)

	assert.ErrorIs(t, ns.Delete(solo.ID), ErrNotFound)
}

func TestNoteStore_InvariantHoldsAcrossSequence(t *testing.T) {
	ns := NewNoteStore()

	n1, err := ns.Create("alpha", []string{"x", "y"})
	require.NoError(t, err)
	checkNoteIndexConsistency(t, ns)

	n2, err := ns.Create("beta", []string{"y", "z"})
	require.NoError(t, err)
	checkNoteIndexConsistency(t, ns)

	_, err = ns.AddTags(n1.ID, []string{"z", "w"})
	require.NoError(t, err)
	checkNoteIndexConsistency(t, ns)

	_, err = ns.RemoveTag(n2.ID, "y")
	require.NoError(t, err)
	checkNoteIndexConsistency(t, ns)

	require.NoError(t, ns.Delete(n1.ID))
	checkNoteIndexConsistency(t, ns)

	counts := ns.TagCounts()
	assert.Equal(t, map[string]int{"z": 1}, counts)
}

func TestNoteStore_ReturnedNotesAreDetached(t *testing.T) {
	ns := NewNoteStore()
	note, err := ns.Create("content", []string{"a"})
	require.NoError(t, err)

	note.Tags[0] = "mutated"
	note.Content = "mutated"

	fresh, err := ns.Get(note.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, fresh.Tags)
	assert.Equal(t, "content", fresh.Content)
}
