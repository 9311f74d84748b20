package store

import (
	"fmt"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/hollis-dev/shoeboxbackend/models"
)

const noteIDAlphabet = "0123456789abcdef"

// NoteStore owns the note collection and its tag index as one aggregate.
// A single mutex guards both so no reader can observe a note present in
// the collection but missing from an index bucket, or vice versa.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[string]*models.Note
	index *TagIndex
}

func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[string]*models.Note),
		index: NewTagIndex(),
	}
}

// newNoteID generates an unused "n_" + 6 lowercase hex identifier.
func (ns *NoteStore) newNoteID() (string, error) {
	for {
		suffix, err := gonanoid.Generate(noteIDAlphabet, 6)
		if err != nil {
			return "", internalErr(fmt.Sprintf("failed to generate note ID: %v", err))
		}
		id := "n_" + suffix
		if _, taken := ns.notes[id]; !taken {
			return id, nil
		}
	}
}

// Create validates content and tags, then stores a new note and registers
// every tag in the index. Validation runs fully before any state is
// written: each tag's length is checked first (over the raw normalized
// list), then the deduplicated count.
func (ns *NoteStore) Create(content string, tags []string) (*models.Note, error) {
	trimmed := trimContent(content)
	if trimmed == "" {
		return nil, validationErr("Content cannot be empty")
	}
	for _, raw := range tags {
		if tag := NormalizeTag(raw); len(tag) > MaxTagLength {
			return nil, validationErr(fmt.Sprintf("tag %q exceeds %d characters", tag, MaxTagLength))
		}
	}
	normalized := normalizeTagList(tags)
	if len(normalized) > MaxTagsPerNote {
		return nil, validationErr(fmt.Sprintf("a note cannot have more than %d tags", MaxTagsPerNote))
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	id, err := ns.newNoteID()
	if err != nil {
		return nil, err
	}
	now := nowISO()
	note := &models.Note{
		ID:        id,
		Content:   trimmed,
		Tags:      normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ns.notes[id] = note
	for _, tag := range normalized {
		ns.index.Add(id, tag)
	}
	return cloneNote(note), nil
}

// Get returns the note with the given ID.
func (ns *NoteStore) Get(id string) (*models.Note, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	note, ok := ns.notes[id]
	if !ok {
		return nil, notFoundErr("Note not found")
	}
	return cloneNote(note), nil
}

// UpdateContent replaces the note's content and bumps updatedAt. Tags are
// untouched.
func (ns *NoteStore) UpdateContent(id, content string) (*models.Note, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	note, ok := ns.notes[id]
	if !ok {
		return nil, notFoundErr("Note not found")
	}
	trimmed := trimContent(content)
	if trimmed == "" {
		return nil, validationErr("Content cannot be empty")
	}
	note.Content = trimmed
	note.UpdatedAt = nowISO()
	return cloneNote(note), nil
}

// AddTags appends the genuinely new tags from the incoming list, in the
// order supplied. Incoming tags are normalized and deduplicated against
// each other and against the note's existing tags; only new tags count
// toward the limit. Length is checked (for new tags) before the limit.
// A list that normalizes to zero new tags succeeds without bumping
// updatedAt.
func (ns *NoteStore) AddTags(id string, tags []string) (*models.Note, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	note, ok := ns.notes[id]
	if !ok {
		return nil, notFoundErr("Note not found")
	}

	existing := make(map[string]struct{}, len(note.Tags))
	for _, tag := range note.Tags {
		existing[tag] = struct{}{}
	}

	var fresh []string
	seen := make(map[string]struct{})
	for _, raw := range tags {
		tag := NormalizeTag(raw)
		if tag == "" {
			continue
		}
		if len(tag) > MaxTagLength {
			return nil, validationErr(fmt.Sprintf("tag %q exceeds %d characters", tag, MaxTagLength))
		}
		if _, dup := existing[tag]; dup {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		fresh = append(fresh, tag)
	}

	if len(note.Tags)+len(fresh) > MaxTagsPerNote {
		return nil, validationErr("Tag limit exceeded")
	}
	if len(fresh) == 0 {
		// nothing actually changed; updatedAt stays put
		return cloneNote(note), nil
	}

	note.Tags = append(note.Tags, fresh...)
	for _, tag := range fresh {
		ns.index.Add(id, tag)
	}
	note.UpdatedAt = nowISO()
	return cloneNote(note), nil
}

// RemoveTag removes one tag from the note and from the index, pruning the
// tag's bucket if the note was its last member. The tag argument is
// normalized before lookup, so removal is case- and whitespace-insensitive.
func (ns *NoteStore) RemoveTag(id, rawTag string) (*models.Note, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	note, ok := ns.notes[id]
	if !ok {
		return nil, notFoundErr("Note not found")
	}
	tag := NormalizeTag(rawTag)
	idx := -1
	for i, t := range note.Tags {
		if t == tag {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, notFoundErr("tag not found on this note")
	}

	note.Tags = append(note.Tags[:idx], note.Tags[idx+1:]...)
	ns.index.Remove(id, tag)
	note.UpdatedAt = nowISO()
	return cloneNote(note), nil
}

// Delete removes the note from the collection and purges its ID from every
// bucket it belonged to. Both happen under the same lock, so no reader can
// see one without the other.
func (ns *NoteStore) Delete(id string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	note, ok := ns.notes[id]
	if !ok {
		return notFoundErr("Note not found")
	}
	delete(ns.notes, id)
	for _, tag := range note.Tags {
		ns.index.Remove(id, tag)
	}
	return nil
}

// TagCounts returns the number of notes per in-use tag.
func (ns *NoteStore) TagCounts() map[string]int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	counts := make(map[string]int)
	for _, tag := range ns.index.Distinct() {
		counts[tag] = ns.index.Count(tag)
	}
	return counts
}

// trimContent trims surrounding whitespace; unlike tags, content keeps its
// case.
func trimContent(content string) string {
	return strings.TrimSpace(content)
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	return &c
}
