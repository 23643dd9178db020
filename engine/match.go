package engine

// IsMutualMatch reports whether two users have each approved the other.
// This is the trigger condition for creating a durable match record; the
// engine itself records nothing.
func IsMutualMatch(approvedByA IDSet, idOfB int, approvedByB IDSet, idOfA int) bool {
	return approvedByA.Contains(idOfB) && approvedByB.Contains(idOfA)
}

// FindMutualMatches filters the users who approved me down to the ones I
// approved back. Input order is preserved; no re-sorting.
func FindMutualMatches(admirers []Candidate, myApproved IDSet) []Candidate {
	matched := make([]Candidate, 0, len(admirers))
	for _, c := range admirers {
		if myApproved.Contains(c.UserID) {
			matched = append(matched, c)
		}
	}
	return matched
}
