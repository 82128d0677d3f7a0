package bot

// Button is one inline choice; Data is what comes back as the callback
// payload when pressed.
type Button struct {
	Label string
	Data  string
}

// Menu is an inline keyboard, one slice per row.
type Menu [][]Button

// Messenger is the outbound half of the chat platform. The state machine
// talks only to this interface, so it works identically under long polling
// and webhook delivery.
type Messenger interface {
	// SendText sends a plain text message to the chat.
	SendText(chatID int64, text string) error

	// SendMenu sends a message with an attached inline keyboard.
	SendMenu(chatID int64, text string, menu Menu) error

	// SendKeyboard sends a message with a persistent reply keyboard,
	// one row of labels per slice.
	SendKeyboard(chatID int64, text string, rows [][]string) error

	// RemoveKeyboard sends a message and removes the reply keyboard.
	RemoveKeyboard(chatID int64, text string) error

	// AnswerCallback acknowledges a pressed inline button so the client
	// stops showing its progress indicator.
	AnswerCallback(callbackID string) error
}

// Event is one inbound chat event, already stripped of transport detail.
// Exactly one of Text/Command/Callback is meaningful for routing.
type Event struct {
	ChatID     int64
	UserID     int64
	Text       string // message text, commands excluded
	Command    string // bot command without the leading slash
	Callback   string // inline button payload
	CallbackID string // callback query id, for acknowledgment
}
