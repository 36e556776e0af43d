package store

// Document is an uploaded text document attached to a chat. When a
// chat has documents, questions are answered against them before any
// web research is considered.
type Document struct {
	ID        string
	ChatID    string
	Filename  string
	Mime      string
	Content   string
	Summary   string
	WordCount int32
	SizeBytes int64
	CreatedTs int64
}

// FindDocument lists documents newest-first.
type FindDocument struct {
	ID     *string
	ChatID *string
}

type DeleteDocument struct {
	ID string
}
