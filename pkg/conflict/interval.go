package conflict

// Overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect. Values are minutes since midnight. An exact
// touch, where one interval ends exactly when the other starts, is not an
// overlap.
func Overlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

// span turns a start and optional end into an interval, wrapping ends that
// cross midnight onto the next day so that a 23:45 start with a 00:15 end
// still covers the late evening.
func span(startMinutes, endMinutes int) (int, int) {
	if endMinutes < startMinutes {
		endMinutes += 24 * 60
	}
	return startMinutes, endMinutes
}
