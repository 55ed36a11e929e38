package protocol

// Message type tags carried in the realtime envelope.
const (
	MessageNotification = "notification"
	MessageFileUpdate   = "file-update"
	MessageUserActivity = "user-activity"
	MessageChat         = "chat"
	MessageFileStatus   = "file-status"
)

// Subscription destinations. These are fixed: the client subscribes to all
// four right after the handshake succeeds.
const (
	TopicUserNotifications = "/user/queue/notifications"
	TopicNotifications     = "/topic/notifications"
	TopicFileUpdates       = "/topic/file-updates"
	TopicUserActivity      = "/topic/user-activity"
)

// File-update action tokens broadcast by the server.
const (
	ActionUpload       = "upload"
	ActionDownload     = "download"
	ActionDelete       = "delete"
	ActionRestore      = "restore"
	ActionPurge        = "purge"
	ActionUnshare      = "unshare"
	ActionCreateFolder = "create-folder"
)

// Envelope is the inbound realtime message. Type selects the payload shape;
// handlers decode their own view from the full message bytes.
type Envelope struct {
	Type string `json:"type"`
}

// Notification is the payload for "notification" messages.
type Notification struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	UserID    int64  `json:"userId,omitempty"`
}

// FileUpdate is the payload for "file-update" messages.
type FileUpdate struct {
	UserID    int64  `json:"userId"`
	Action    string `json:"action"`
	FileName  string `json:"fileName"`
	Timestamp string `json:"timestamp"`
}

// UserActivity is the payload for "user-activity" messages.
type UserActivity struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Activity string `json:"activity"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

// ChatMessage is the payload for "chat" messages.
type ChatMessage struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// FileStatus is the payload for "file-status" (transfer progress) messages.
type FileStatus struct {
	FileName string  `json:"fileName"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// SubscribeFrame is sent by the client to subscribe to a destination.
type SubscribeFrame struct {
	Command     string `json:"command"`
	Destination string `json:"destination"`
	ID          string `json:"id"`
}

// SendFrame is an outbound application message.
type SendFrame struct {
	Destination string      `json:"destination"`
	Body        interface{} `json:"body"`
}
