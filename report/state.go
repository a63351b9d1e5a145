package report

// State is a step of report generation.
type State string

// Generation moves Created → Opened → TitleRendered or TitleSkipped →
// Paginating → Closed. A failure in any state moves straight to Closed.
const (
	StateCreated       State = "Created"
	StateOpened        State = "Opened"
	StateTitleRendered State = "TitleRendered"
	StateTitleSkipped  State = "TitleSkipped"
	StatePaginating    State = "Paginating"
	StateClosed        State = "Closed"
)

// StateNone is the state of a Result before generation starts.
const StateNone State = ""

var transitions = map[State][]State{
	StateNone:          {StateCreated},
	StateCreated:       {StateOpened},
	StateOpened:        {StateTitleRendered, StateTitleSkipped},
	StateTitleRendered: {StatePaginating},
	StateTitleSkipped:  {StatePaginating},
	StatePaginating:    {StateClosed},
}

// CanTransition reports whether next may follow from. Closed may follow any
// state but itself.
func CanTransition(from, next State) bool {
	if next == StateClosed {
		return from != StateClosed
	}
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}
