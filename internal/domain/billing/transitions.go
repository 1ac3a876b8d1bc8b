package billing

// CanTransition reports whether a payment may move from one status to
// another. The machine only moves forward: PENDING fans out to the
// terminal outcomes, SUCCESS may still become REFUNDED, and nothing
// ever re-enters PENDING.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		switch to {
		case StatusSuccess, StatusFailed, StatusCanceled, StatusExpired:
			return true
		}
	case StatusSuccess:
		return to == StatusRefunded
	}
	return false
}

// IsNoop reports whether re-applying a status is a harmless duplicate,
// which is how at-least-once webhook deliveries show up.
func IsNoop(from, to string) bool {
	return from == to
}
