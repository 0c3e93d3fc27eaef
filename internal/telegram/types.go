package telegram

// Minimal slices of the Bot API types; only the fields this bot reads.

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type ChatInviteLink struct {
	InviteLink  string `json:"invite_link"`
	Name        string `json:"name"`
	MemberLimit int    `json:"member_limit"`
	IsRevoked   bool   `json:"is_revoked"`
}
