package booking

// statusChange is the outcome of evaluating a generic status update.
type statusChange struct {
	noop              bool
	clearProfessional bool
}

// evaluateStatusChange applies the generic transition table to b moving to target.
//
//	pending                -> cancelled; pending is a no-op; anything else needs accept first
//	accepted, in_progress  -> any status; pending reopens the booking and clears the professional
//	completed, cancelled   -> nothing
func evaluateStatusChange(b *Booking, target Status) (statusChange, error) {
	from := b.Status
	if from.Terminal() {
		return statusChange{}, ErrInvalidTransition
	}
	if from == target {
		return statusChange{noop: true}, nil
	}

	switch from {
	case StatusPending:
		if target != StatusCancelled {
			return statusChange{}, ErrInvalidTransition
		}
		return statusChange{}, nil
	case StatusAccepted, StatusInProgress:
		return statusChange{clearProfessional: target == StatusPending}, nil
	}
	return statusChange{}, ErrInvalidTransition
}
