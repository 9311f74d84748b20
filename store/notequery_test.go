package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedNotes creates notes with deterministic, strictly increasing
// timestamps so sort assertions do not depend on wall-clock resolution.
func seedNotes(t *testing.T, ns *NoteStore, specs []struct {
	content string
	tags    []string
}) []string {
	t.Helper()
	ids := make([]string, len(specs))
	for i, spec := range specs {
		note, err := ns.Create(spec.content, spec.tags)
		require.NoError(t, err)
		ids[i] = note.ID

		stamp := fmt.Sprintf("2024-01-%02dT00:00:00.000Z", i+1)
		ns.mu.Lock()
		ns.notes[note.ID].CreatedAt = stamp
		ns.notes[note.ID].UpdatedAt = stamp
		ns.mu.Unlock()
	}
	return ids
}

func TestNoteList_DefaultOrderIsCreatedDesc(t *testing.T) {
	ns := NewNoteStore()
	ids := seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"oldest", nil},
		{"middle", nil},
		{"newest", nil},
	})

	notes, total := ns.List(NoteListOptions{})
	assert.Equal(t, 3, total)
	require.Len(t, notes, 3)
	assert.Equal(t, ids[2], notes[0].ID)
	assert.Equal(t, ids[0], notes[2].ID)
}

func TestNoteList_AscReversesOrder(t *testing.T) {
	ns := NewNoteStore()
	ids := seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"oldest", nil},
		{"newest", nil},
	})

	notes, _ := ns.List(NoteListOptions{Order: OrderAsc})
	require.Len(t, notes, 2)
	assert.Equal(t, ids[0], notes[0].ID)
	assert.Equal(t, ids[1], notes[1].ID)
}

func TestNoteList_SortByUpdatedAt(t *testing.T) {
	ns := NewNoteStore()
	ids := seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"first", nil},
		{"second", nil},
		{"third", nil},
	})

	// editing the oldest note moves it to the front under updatedAt desc
	_, err := ns.UpdateContent(ids[0], "first, edited")
	require.NoError(t, err)

	notes, _ := ns.List(NoteListOptions{Sort: NoteSortUpdated})
	require.Len(t, notes, 3)
	assert.Equal(t, ids[0], notes[0].ID)

	// default createdAt sort is unaffected by the edit
	notes, _ = ns.List(NoteListOptions{})
	assert.Equal(t, ids[2], notes[0].ID)
}

func TestNoteList_TagFilter(t *testing.T) {
	ns := NewNoteStore()
	seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"tagged", []string{"work"}},
		{"untagged", nil},
		{"also tagged", []string{"work", "extra"}},
	})

	notes, total := ns.List(NoteListOptions{Tag: "work"})
	assert.Equal(t, 2, total)
	assert.Len(t, notes, 2)

	// tag lookup normalizes its argument
	_, total = ns.List(NoteListOptions{Tag: "  WORK "})
	assert.Equal(t, 2, total)

	// unknown tag is an empty result, not an error
	notes, total = ns.List(NoteListOptions{Tag: "nope"})
	assert.Equal(t, 0, total)
	assert.Empty(t, notes)
}

func TestNoteList_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	ns := NewNoteStore()
	seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"Grocery list: milk, eggs", nil},
		{"Meeting notes", nil},
	})

	notes, total := ns.List(NoteListOptions{Search: "GROCERY"})
	assert.Equal(t, 1, total)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Content, "Grocery")

	_, total = ns.List(NoteListOptions{Search: "zzz"})
	assert.Equal(t, 0, total)
}

func TestNoteList_TagFilterThenSearch(t *testing.T) {
	ns := NewNoteStore()
	seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"project kickoff", []string{"work"}},
		{"project ideas", []string{"personal"}},
		{"standup notes", []string{"work"}},
	})

	notes, total := ns.List(NoteListOptions{Tag: "work", Search: "project"})
	assert.Equal(t, 1, total)
	require.Len(t, notes, 1)
	assert.Equal(t, "project kickoff", notes[0].Content)
}

func TestNoteList_Pagination(t *testing.T) {
	ns := NewNoteStore()
	seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"one", nil}, {"two", nil}, {"three", nil}, {"four", nil},
	})

	// out-of-range page yields an empty slice with the full total
	notes, total := ns.List(NoteListOptions{Page: 99, Limit: 10})
	assert.Equal(t, 4, total)
	assert.Empty(t, notes)

	notes, total = ns.List(NoteListOptions{Page: 2, Limit: 3})
	assert.Equal(t, 4, total)
	assert.Len(t, notes, 1)
}

func TestNoteList_PageNumberCannotOverflow(t *testing.T) {
	ns := NewNoteStore()
	seedNotes(t, ns, []struct {
		content string
		tags    []string
	}{
		{"one", nil}, {"two", nil}, {"three", nil}, {"four", nil},
	})

	// a page huge enough that (page-1)*limit would wrap negative must
	// behave like any other out-of-range page
	notes, total := ns.List(NoteListOptions{Page: 1 << 62, Limit: 4})
	assert.Equal(t, 4, total)
	assert.Empty(t, notes)
}

func TestEffectiveNoteLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, EffectiveNoteLimit(0))
	assert.Equal(t, DefaultListLimit, EffectiveNoteLimit(-5))
	assert.Equal(t, 10, EffectiveNoteLimit(10))
	assert.Equal(t, MaxNoteListLimit, EffectiveNoteLimit(100))
	assert.Equal(t, MaxNoteListLimit, EffectiveNoteLimit(5000))
}
