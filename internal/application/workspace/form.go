package workspace

import "errors"

// State is a form's position in its edit cycle.
type State string

// Form states
const (
	Idle    State = "idle"
	Editing State = "editing"
	Saving  State = "saving"
)

// Form errors
var (
	ErrSaveInFlight      = errors.New("a save for this form is already in progress")
	ErrCancelWhileSaving = errors.New("cannot cancel while a save is in progress")
)

// Form is one add-form state machine holding a draft of type D.
//
//	Idle -> Editing (open) -> Saving (submit) -> Idle (confirmed)
//	Saving -> Editing (validation or persistence failure, draft kept)
//	Editing -> Idle (cancel, draft dropped)
//
// Form is not safe for concurrent use; the owning Workspace serialises access.
type Form[D any] struct {
	state State
	draft D
	err   error
}

// FormView is a read-only copy of a form for rendering.
type FormView[D any] struct {
	State State  `json:"state"`
	Draft D      `json:"draft"`
	Error string `json:"error,omitempty"`
}

// State returns the current state, treating the zero Form as Idle.
func (f *Form[D]) State() State {
	if f.state == "" {
		return Idle
	}
	return f.state
}

// Open moves Idle to Editing with an empty draft. Opening an Editing form keeps its draft.
func (f *Form[D]) Open() error {
	switch f.State() {
	case Saving:
		return ErrSaveInFlight
	case Idle:
		var zero D
		f.state, f.draft, f.err = Editing, zero, nil
	}
	return nil
}

// Cancel discards the draft and returns to Idle. It never touches the store.
func (f *Form[D]) Cancel() error {
	if f.State() == Saving {
		return ErrCancelWhileSaving
	}
	var zero D
	f.state, f.draft, f.err = Idle, zero, nil
	return nil
}

// begin enters Saving with draft. Submitting from Idle opens the form implicitly.
func (f *Form[D]) begin(draft D) error {
	if f.State() == Saving {
		return ErrSaveInFlight
	}
	f.state, f.draft, f.err = Saving, draft, nil
	return nil
}

func (f *Form[D]) succeed() {
	var zero D
	f.state, f.draft, f.err = Idle, zero, nil
}

func (f *Form[D]) fail(err error) {
	f.state, f.err = Editing, err
}

// View returns a snapshot of the form.
func (f *Form[D]) View() FormView[D] {
	v := FormView[D]{State: f.State(), Draft: f.draft}
	if f.err != nil {
		v.Error = f.err.Error()
	}
	return v
}
