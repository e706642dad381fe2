package services

// Back-reference list maintenance. These lists (a user's booking ids, a tour's
// review and guide ids) are denormalized: membership changes preserve
// insertion order and never introduce duplicates. Ids are compared by value,
// so the same id arriving through different code paths is still one entry.

// AddUnique appends id to list only when absent.
func AddUnique(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// RemoveID removes id from list. A missing id is a no-op, not an error: the
// caller may be healing a reference that was already cleaned up.
func RemoveID(list []string, id string) []string {
	for i, existing := range list {
		if existing == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// ContainsID reports membership of id in list.
func ContainsID(list []string, id string) bool {
	for _, existing := range list {
		if existing == id {
			return true
		}
	}
	return false
}
