package live

// Client message types.
const (
	MsgSelect       = "select"
	MsgNavigate     = "navigate"
	MsgCopy         = "copy"
	MsgClipboardAck = "clipboard-ack"
)

// Server message types.
const (
	MsgSession     = "session"
	MsgPage        = "page"
	MsgPanel       = "panel"
	MsgHighlighted = "highlighted"
	MsgCopied      = "copied"
	MsgClipboard   = "clipboard"
	MsgReload      = "reload"
	MsgError       = "error"
)

// ClientMessage is a message sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Group string `json:"group,omitempty"`
	Panel string `json:"panel,omitempty"`
	Path  string `json:"path,omitempty"`
	Block int    `json:"block"`
	Seq   uint64 `json:"seq,omitempty"`
	OK    bool   `json:"ok,omitempty"`
}

// BlockUpdate carries the markup of a newly marked code block.
type BlockUpdate struct {
	ID       int    `json:"id"`
	HTML     string `json:"html"`
	Fallback bool   `json:"fallback,omitempty"`
}

// ServerMessage is a message sent to the browser.
type ServerMessage struct {
	Type    string        `json:"type"`
	Session string        `json:"session,omitempty"`
	Path    string        `json:"path,omitempty"`
	Title   string        `json:"title,omitempty"`
	Group   string        `json:"group,omitempty"`
	Panel   string        `json:"panel,omitempty"`
	HTML    string        `json:"html,omitempty"`
	Blocks  []BlockUpdate `json:"blocks,omitempty"`
	Block   int           `json:"block,omitempty"`
	Copied  bool          `json:"copied,omitempty"`
	Seq     uint64        `json:"seq,omitempty"`
	Text    string        `json:"text,omitempty"`
	Error   string        `json:"error,omitempty"`
}
