package punch

// NextAction computes which punch type is valid next, given a user's
// records for the current day ordered by timestamp. The second return
// value is false once the day is complete (last punch was a check-out).
//
// Only the last record matters: the daily sequence is the fixed cycle
// check-in, break-start, break-end, check-out. A record with a
// corrupted type falls back to check-in so the caller always has a
// sane affordance.
func NextAction(today []TimeRecord) (Type, bool) {
	if len(today) == 0 {
		return TypeCheckIn, true
	}

	switch today[len(today)-1].Type {
	case TypeCheckIn:
		return TypeBreakStart, true
	case TypeBreakStart:
		return TypeBreakEnd, true
	case TypeBreakEnd:
		return TypeCheckOut, true
	case TypeCheckOut:
		return "", false
	default:
		return TypeCheckIn, true
	}
}
