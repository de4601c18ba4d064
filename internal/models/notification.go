package models

// Notification types
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
)

// Notification is the short toast a UI shows after an action completes
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Success builds a success notification
func Success(message string) Notification {
	return Notification{Type: NotifySuccess, Message: message}
}

// Failure builds an error notification
func Failure(message string) Notification {
	return Notification{Type: NotifyError, Message: message}
}

// Info builds an informational notification
func Info(message string) Notification {
	return Notification{Type: NotifyInfo, Message: message}
}
