package filter

import (
	"fmt"
	"sync"
	"time"

	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/observe"
)

// Change is published after every mutation that altered criteria or sort.
// Version increases by one with each published change.
type Change struct {
	Criteria model.FilterCriteria
	Sort     model.SortDirective
	Version  uint64
}

// State holds the current filter criteria and sort directive. Values are
// replaced wholesale on every edit; a mutation that yields an equal value
// publishes nothing.
//
// Subscribers are called with the state lock held, in mutation order. They
// must not call back into State.
type State struct {
	mu       sync.Mutex
	criteria model.FilterCriteria
	sort     model.SortDirective
	version  uint64
	changes  observe.Subject[Change]
}

func NewState() *State {
	return &State{sort: model.DefaultSort()}
}

func (s *State) Criteria() model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func (s *State) Sort() model.SortDirective {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *State) Snapshot() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Change{Criteria: s.criteria, Sort: s.sort, Version: s.version}
}

// Subscribe registers fn for change notifications.
func (s *State) Subscribe(fn func(Change)) func() {
	return s.changes.Subscribe(fn)
}

// SetField replaces exactly one field. Date fields take a YYYY-MM-DD local
// calendar date; an empty value clears the field.
func (s *State) SetField(field model.FilterField, value string) (model.FilterCriteria, error) {
	if !field.Valid() {
		return s.Criteria(), &model.ValidationError{Field: string(field), Reason: "unknown filter field"}
	}
	if field.IsDate() {
		t, err := model.ParseDate(value)
		if err != nil {
			return s.Criteria(), &model.ValidationError{Field: string(field), Reason: fmt.Sprintf("expected YYYY-MM-DD, got %q", value)}
		}
		return s.SetDate(field, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.criteria
	switch field {
	case model.FieldCompany:
		next.Company = value
	case model.FieldSourceRegion:
		next.SourceRegion = value
	case model.FieldLocation:
		next.Location = value
	case model.FieldJobTitle:
		next.JobTitle = value
	}
	s.replace(next, s.sort)
	return s.criteria, nil
}

// SetDate replaces one date bound. A zero time clears it.
func (s *State) SetDate(field model.FilterField, t time.Time) (model.FilterCriteria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.criteria
	switch field {
	case model.FieldDateFrom:
		next.DateFrom = t
	case model.FieldDateTo:
		next.DateTo = t
	default:
		return s.criteria, &model.ValidationError{Field: string(field), Reason: "not a date field"}
	}
	s.replace(next, s.sort)
	return s.criteria, nil
}

// Clear resets all six fields in one step, producing a single notification.
func (s *State) Clear() model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(model.FilterCriteria{}, s.sort)
	return s.criteria
}

// Apply replaces the whole criteria value at once, so an edit touching
// several fields requeries once.
func (s *State) Apply(c model.FilterCriteria) model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(c, s.sort)
	return s.criteria
}

// Replace sets criteria and sort together, publishing at most once.
func (s *State) Replace(c model.FilterCriteria, sd model.SortDirective) (Change, error) {
	if err := sd.Validate(); err != nil {
		return s.Snapshot(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(c, sd)
	return Change{Criteria: s.criteria, Sort: s.sort, Version: s.version}, nil
}

func (s *State) SetSort(field model.SortField, order model.SortOrder) (model.SortDirective, error) {
	next := model.SortDirective{Field: field, Order: order}
	if err := next.Validate(); err != nil {
		return s.Sort(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(s.criteria, next)
	return s.sort, nil
}

func (s *State) replace(c model.FilterCriteria, sd model.SortDirective) {
	if s.criteria.Equal(c) && s.sort == sd {
		return
	}
	s.criteria = c
	s.sort = sd
	s.version++
	s.changes.Publish(Change{Criteria: c, Sort: sd, Version: s.version})
}
