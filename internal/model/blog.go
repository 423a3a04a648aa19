// Package model defines the core client data types.
package model

import "time"

// Session is the authenticated identity held by the client.
type Session struct {
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Token       string `json:"token"`
}

// Owner identifies the account that created a blog.
type Owner struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"name"`
}

// BlogRecord is a single blog entry as cached by the client.
type BlogRecord struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	Owner  Owner  `json:"user"`
}

// Draft holds the fields a user supplies when creating a blog.
type Draft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// Severity is the kind of a notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Severities lists every notification severity.
var Severities = []Severity{SeverityError, SeveritySuccess}

// Notification is a transient user-facing message.
type Notification struct {
	ID       string    `json:"id"`
	Severity Severity  `json:"severity"`
	Text     string    `json:"text"`
	IssuedAt time.Time `json:"issued_at"`
}
