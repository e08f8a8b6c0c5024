package poetry

// WordFreqInfo records how often a word occurred as a predecessor in the
// corpus and, in observation order, every token that immediately followed
// it. The follow list may contain duplicates; duplication is the sampling
// weight, so no separate frequency field exists. The occurrence count is
// always the length of the follow list.
type WordFreqInfo struct {
	Word        string
	followWords []string
}

// NewWordFreqInfo returns an empty record for word. A record only becomes
// valid for sampling after its first UpdateFollows call.
func NewWordFreqInfo(word string) *WordFreqInfo {
	return &WordFreqInfo{Word: word}
}

// UpdateFollows appends follower to the follow list, which also counts
// one occurrence of the word.
func (w *WordFreqInfo) UpdateFollows(follower string) {
	w.followWords = append(w.followWords, follower)
}

// OccurCount returns how many times the word was seen as a predecessor.
func (w *WordFreqInfo) OccurCount() int {
	return len(w.followWords)
}

// FollowWordAt returns the i-th observed follower. i must be in
// [0, OccurCount()); callers guarantee this by sampling in range.
func (w *WordFreqInfo) FollowWordAt(i int) string {
	return w.followWords[i]
}
