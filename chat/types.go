// Package chat implements the conversation core of docshelf: the per-user
// session state machine driving the upload, retrieval, and deletion flows.
// It consumes transport-agnostic events and emits reply effects; the
// Telegram specifics live in chat/telegram.
package chat

// Event is an inbound user action, produced by the transport adapter.
type Event interface {
	// Owner returns the id of the user the event belongs to.
	Owner() int64
}

// DocumentUploaded reports a document received from the user.
type DocumentUploaded struct {
	OwnerID      int64
	FileUniqueID string // identifies the content, unique per file on Telegram's side
	FileID       string // handle used to re-send the same content later
	FileName     string
}

func (e DocumentUploaded) Owner() int64 { return e.OwnerID }

// ButtonSelected reports an inline keyboard button press. Payload is either
// a category name or one of the reserved control labels.
type ButtonSelected struct {
	OwnerID int64
	Payload string
}

func (e ButtonSelected) Owner() int64 { return e.OwnerID }

// TextEntered reports a plain text message.
type TextEntered struct {
	OwnerID int64
	Text    string
}

func (e TextEntered) Owner() int64 { return e.OwnerID }

// CommandKind distinguishes the two short-reference commands.
type CommandKind int

const (
	CommandFetch CommandKind = iota
	CommandDelete
)

// ShortReferenceCommand reports a /f<ref> or /d<ref> command. These are
// stateless: they are accepted whatever the session state is.
type ShortReferenceCommand struct {
	OwnerID int64
	Kind    CommandKind
	RawRef  string
}

func (e ShortReferenceCommand) Owner() int64 { return e.OwnerID }

// StartCommand reports the /start command.
type StartCommand struct {
	OwnerID int64
}

func (e StartCommand) Owner() int64 { return e.OwnerID }

// Effect is an outbound instruction for the transport adapter.
type Effect interface {
	isEffect()
}

// ReplyText sends a text message, optionally with an inline keyboard or the
// persistent main menu keyboard attached.
type ReplyText struct {
	Text     string
	Markdown bool
	Keyboard *Keyboard
	MainMenu bool
}

func (ReplyText) isEffect() {}

// ReplyAttachments re-sends previously stored files as one attachment batch.
type ReplyAttachments struct {
	FileIDs []string
}

func (ReplyAttachments) isEffect() {}

// DeleteOriginalMessage removes the message the event came from. Used to
// clear a rendered category keyboard after selection and to tidy up
// follow-up documents appended to a staged batch.
type DeleteOriginalMessage struct{}

func (DeleteOriginalMessage) isEffect() {}

// Keyboard is an inline keyboard, one button per row. The button label
// doubles as the callback payload.
type Keyboard struct {
	Buttons []string
}
