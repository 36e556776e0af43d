package store

// TitleSource indicates how the chat title was created.
// - "default": system default ("New Research")
// - "auto": derived from the first substantive query
// - "user": user-provided title
type TitleSource string

const (
	TitleSourceDefault TitleSource = "default"
	TitleSourceAuto    TitleSource = "auto"
	TitleSourceUser    TitleSource = "user"
)

// DefaultChatTitle is the title given to a chat before its first
// research query names it.
const DefaultChatTitle = "New Research"

// Chat is one research conversation.
type Chat struct {
	ID          string
	Title       string
	TitleSource TitleSource
	CreatedTs   int64
	UpdatedTs   int64

	// MessageCount is populated by ListChats with a JOIN.
	MessageCount int32
}

type FindChat struct {
	ID *string

	// Title filters by exact match.
	Title *string

	// TitleContains filters by substring match, case-insensitive.
	TitleContains *string

	Limit *int
}

type UpdateChat struct {
	ID          string
	Title       *string
	TitleSource *TitleSource
	UpdatedTs   *int64
}

type DeleteChat struct {
	ID string
}
