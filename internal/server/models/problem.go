package models

// Problem is an open question attached to an article. UserID is the creator,
// who is usually not the article owner.
type Problem struct {
	ID        int64
	Text      string
	IsSolved  bool
	ArticleID int64
	UserID    int64
}

// ProblemState is a requested is_solved value for one problem.
type ProblemState struct {
	ID       int64
	IsSolved bool
}
