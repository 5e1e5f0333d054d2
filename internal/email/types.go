package email

// Email is one outbound message. Body is plain text, HTMLBody wins when
// both are set.
type Email struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	Body     string
	HTMLBody string
}
