package service

import (
	"context"
	"errors"

	"journal/store"
)

// ErrMissingID rejects notes that could never be addressed for deletion.
var ErrMissingID = errors.New("note id is required")

// Publisher is told about every successful change. socket.Hub implements it.
type Publisher interface {
	NoteCreated(note store.Note)
	NoteDeleted(id string)
	NotesReloaded()
}

type NoteService struct {
	Store     store.Store
	Publisher Publisher
}

// NewNoteService wires a store and an optional publisher (nil disables events).
func NewNoteService(st store.Store, pub Publisher) *NoteService {
	return &NoteService{Store: st, Publisher: pub}
}

// ListNotes returns notes in insertion order, limited to category when it is
// not empty.
func (s *NoteService) ListNotes(ctx context.Context, category string) ([]store.Note, error) {
	notes, err := s.Store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return notes, nil
	}
	filtered := make([]store.Note, 0, len(notes))
	for _, n := range notes {
		if n.Category == category {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

func (s *NoteService) GetNote(ctx context.Context, id string) (store.Note, error) {
	return s.Store.Get(ctx, id)
}

func (s *NoteService) CreateNote(ctx context.Context, note store.Note) (store.Note, error) {
	if note.ID == "" {
		return store.Note{}, ErrMissingID
	}
	if err := s.Store.Append(ctx, note); err != nil {
		return store.Note{}, err
	}
	if s.Publisher != nil {
		s.Publisher.NoteCreated(note)
	}
	return note, nil
}

// DeleteNote returns store.ErrNotFound when nothing matched and
// store.ErrFileMissing when the file store was never written.
func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	removed, err := s.Store.RemoveByID(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}
	if s.Publisher != nil {
		s.Publisher.NoteDeleted(id)
	}
	return nil
}

func (s *NoteService) Categories() []string {
	return append([]string(nil), store.Categories...)
}

// NotesChanged is called when the store was modified behind the service's back.
func (s *NoteService) NotesChanged() {
	if s.Publisher != nil {
		s.Publisher.NotesReloaded()
	}
}
