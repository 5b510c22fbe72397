package metadata

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"equalizer/internal/host"
	"equalizer/internal/logging"
)

const (
	GuardPrefix = "AYON_CONTEXT::"
	GuardSuffix = "::AYON_CONTEXT_END"
)

var guardPattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(GuardPrefix) + `(.*?)` + regexp.QuoteMeta(GuardSuffix))

// Guard wraps payload in the guard tokens.
func Guard(payload string) string {
	return GuardPrefix + payload + GuardSuffix
}

// NotesStore is a Store embedded in a host's notes text.
type NotesStore struct {
	host   host.Host
	logger *slog.Logger
}

// NewNotesStore wraps h. A nil logger discards output.
func NewNotesStore(h host.Host, logger *slog.Logger) *NotesStore {
	return &NotesStore{
		host:   h,
		logger: logging.NewComponentLogger(logger, "metadata"),
	}
}

// ReadDocument returns the embedded document. A missing guard is created and
// a malformed payload is reset to an empty object; both return an empty
// Document.
func (s *NotesStore) ReadDocument() (Document, error) {
	notes, err := s.host.GetNotes()
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	loc := guardPattern.FindStringSubmatchIndex(notes)
	if loc == nil {
		s.logger.Debug("no AYON document in notes, creating placeholder",
			logging.String(logging.FieldEventType, "document_created"))
		if err := s.setNotes(notes + "\n" + Guard("{}") + "\n"); err != nil {
			return nil, err
		}
		return Document{}, nil
	}

	doc, err := Decode(notes[loc[2]:loc[3]])
	if err != nil {
		s.logger.Debug("AYON document is not valid json, resetting",
			logging.String(logging.FieldEventType, "document_reset"),
			logging.Error(err))
		if err := s.setNotes(notes[:loc[0]] + Guard("{}") + notes[loc[1]:]); err != nil {
			return nil, err
		}
		return Document{}, nil
	}
	return doc, nil
}

// WriteDocument merges partial into the current document and writes it back
// into every guard in the notes.
func (s *NotesStore) WriteDocument(partial Document) error {
	current, err := s.ReadDocument()
	if err != nil {
		return err
	}
	encoded, err := Encode(Merge(current, partial))
	if err != nil {
		return err
	}

	notes, err := s.host.GetNotes()
	if err != nil {
		return fmt.Errorf("read notes: %w", err)
	}
	updated := guardPattern.ReplaceAllLiteralString(notes, Guard(encoded))
	if err := s.setNotes(updated); err != nil {
		return err
	}

	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	s.logger.Debug("wrote AYON document", logging.String("keys", strings.Join(keys, ",")))
	return nil
}

func (s *NotesStore) setNotes(notes string) error {
	if err := s.host.SetNotes(notes); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	s.host.Refresh()
	return nil
}
