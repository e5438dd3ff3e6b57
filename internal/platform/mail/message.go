// Package mail builds account emails and delivers them through a background queue.
package mail

import "fmt"

// Message is one plain-text email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// WelcomeMessage is sent after registration.
func WelcomeMessage(email, name string) Message {
	return Message{
		To:      email,
		ToName:  name,
		Subject: "Thanks for joining in!",
		Body:    fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
	}
}

// CancelationMessage is sent after the account is deleted.
func CancelationMessage(email, name string) Message {
	return Message{
		To:      email,
		ToName:  name,
		Subject: "Sorry to see you go!",
		Body:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name),
	}
}
