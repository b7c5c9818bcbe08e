// Package session holds the content extracted for one analysis request.
//
// A Session has two single-slot stores, one for the specification text and
// one for the workbook snapshot. Storing overwrites; retrieving renders the
// slot as text for the reasoning model. Each analysis gets its own Session,
// so concurrent analyses never share slots.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/models"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/output"
)

// Kind identifies a content slot.
type Kind string

const (
	// KindSpecification is the slot for the extracted specification text.
	KindSpecification Kind = "specification"
	// KindWorkbook is the slot for the normalized workbook snapshot.
	KindWorkbook Kind = "workbook"
)

// Sentinels returned when a slot is read before anything was stored.
const (
	SpecificationNotAvailable = "PDF content not available. Please ensure the PDF file was properly loaded."
	WorkbookNotAvailable      = "Excel content not available. Please ensure the Excel file was properly loaded."
)

// Session is a per-request content holder. It is safe for concurrent use.
type Session struct {
	id string

	mu         sync.RWMutex
	spec       *models.Result[string]
	workbook   *models.Result[*models.WorkbookSnapshot]
	retrievals map[Kind]int
}

// New creates an empty session with a fresh id.
func New() *Session {
	return &Session{
		id:         uuid.NewString(),
		retrievals: make(map[Kind]int),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// StoreSpecification replaces the specification slot.
func (s *Session) StoreSpecification(r models.Result[string]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = &r
}

// StoreWorkbook replaces the workbook slot.
func (s *Session) StoreWorkbook(r models.Result[*models.WorkbookSnapshot]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workbook = &r
}

// Store replaces the slot of the given kind. value must be a
// models.Result of the slot's content type.
func (s *Session) Store(kind Kind, value interface{}) error {
	switch kind {
	case KindSpecification:
		r, ok := value.(models.Result[string])
		if !ok {
			return fmt.Errorf("session: %s slot expects models.Result[string], got %T", kind, value)
		}
		s.StoreSpecification(r)
	case KindWorkbook:
		r, ok := value.(models.Result[*models.WorkbookSnapshot])
		if !ok {
			return fmt.Errorf("session: %s slot expects models.Result[*models.WorkbookSnapshot], got %T", kind, value)
		}
		s.StoreWorkbook(r)
	default:
		return fmt.Errorf("session: unknown slot %q", kind)
	}
	return nil
}

// Specification returns the stored specification result, if any.
func (s *Session) Specification() (models.Result[string], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.spec == nil {
		return models.Result[string]{}, false
	}
	return *s.spec, true
}

// Workbook returns the stored workbook result, if any.
func (s *Session) Workbook() (models.Result[*models.WorkbookSnapshot], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workbook == nil {
		return models.Result[*models.WorkbookSnapshot]{}, false
	}
	return *s.workbook, true
}

// Retrieve renders the slot of the given kind as text. A slot that was never
// stored yields its "not available" sentinel; a failed parse yields the
// parse error text.
func (s *Session) Retrieve(kind Kind) string {
	s.mu.Lock()
	s.retrievals[kind]++
	s.mu.Unlock()

	switch kind {
	case KindSpecification:
		return s.renderSpecification()
	case KindWorkbook:
		return s.renderWorkbook()
	default:
		return fmt.Sprintf("Unknown content %q.", kind)
	}
}

// RetrieveSpecificationText renders the specification slot.
func (s *Session) RetrieveSpecificationText() string {
	return s.Retrieve(KindSpecification)
}

// RetrieveWorkbookSnapshot renders the workbook slot as indented JSON.
func (s *Session) RetrieveWorkbookSnapshot() string {
	return s.Retrieve(KindWorkbook)
}

// Retrievals returns how many times the slot of the given kind was read.
func (s *Session) Retrievals(kind Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retrievals[kind]
}

func (s *Session) renderSpecification() string {
	r, ok := s.Specification()
	if !ok {
		return SpecificationNotAvailable
	}
	if !r.IsOK() {
		return r.Err.Error()
	}
	return r.Value
}

func (s *Session) renderWorkbook() string {
	r, ok := s.Workbook()
	if !ok {
		return WorkbookNotAvailable
	}
	if !r.IsOK() {
		return r.Err.Error()
	}
	if r.Value == nil {
		return WorkbookNotAvailable
	}
	data, err := output.ToJSON(r.Value, true)
	if err != nil {
		return (&models.ParseError{Source: models.SourceExcel, Err: err}).Error()
	}
	return string(data)
}
