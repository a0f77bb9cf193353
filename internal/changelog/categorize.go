package changelog

// Categorize partitions commits by category. Every commit lands in exactly
// one category and order within a category follows the input.
func Categorize(commits []Commit) ChangeSet {
	set := make(ChangeSet)
	for _, c := range commits {
		t := Classify(c.Subject)
		set[t] = append(set[t], c)
	}
	return set
}
