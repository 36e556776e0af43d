package store

// Message is one completed exchange in a chat: the user's query and
// the report (or contextual response) produced for it.
type Message struct {
	ID        int64
	ChatID    string
	Query     string
	Report    string
	CreatedTs int64
}

type FindMessage struct {
	ChatID *string

	// Limit caps the result to the most recent N messages. Results are
	// always returned in ascending creation order.
	Limit *int
}
