package domain

type QuantityChange struct {
	Name  string
	Delta int
}

// MutationOutcome reports the changes the remote service applied for a
// single absolute quantity set.
type MutationOutcome struct {
	Changes []QuantityChange
}

type UserError struct {
	Field   []string
	Message string
}

// RemoteError is an error reported by the remote API itself, as opposed
// to a transport failure reaching it.
type RemoteError struct {
	Errors []UserError
}

func (e *RemoteError) Error() string {
	if len(e.Errors) == 0 {
		return "remote api error"
	}
	return e.Errors[0].Message
}
