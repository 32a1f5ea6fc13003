package dto

import "time"

// MailMessageRef is a search hit.
type MailMessageRef struct {
	ID       string
	ThreadID string
}

// MailMessageMeta carries the headers needed for a local keyword scan.
type MailMessageMeta struct {
	ID       string
	ThreadID string
	Subject  string
	From     string
	Snippet  string
}

// MailMessage is a fully fetched message with its body already extracted.
type MailMessage struct {
	ID         string
	ThreadID   string
	Subject    string
	From       string
	Snippet    string
	Body       string
	Date       *time.Time
	InternalAt *time.Time
}

// GmailSyncResponse summarises one mailbox ingestion run.
type GmailSyncResponse struct {
	DealsCreated  int    `json:"dealsCreated"`
	MessagesAdded int    `json:"messagesAdded"`
	Message       string `json:"message"`
}
