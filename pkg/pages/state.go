package pages

// State is everything the tab selector remembers.
type State struct {
	Mode Mode
}

// Action is a user intent applied by Reduce.
type Action interface {
	isAction()
}

// PillClick selects the pill for Mode.
type PillClick struct {
	Mode Mode
}

func (PillClick) isAction() {}

// Reduce returns the state after a. Every valid mode is reachable from every
// state; an unknown mode leaves the state as it is.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case PillClick:
		if a.Mode.Valid() {
			s.Mode = a.Mode
		}
	}
	return s
}
