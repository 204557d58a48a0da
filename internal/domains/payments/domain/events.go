package domain

import "time"

// Kind identifies an inbound event variant.
type Kind string

const (
	KindCommandInvoked Kind = "command_invoked"
	KindSelectionMade  Kind = "selection_made"
	KindFormSubmitted  Kind = "form_submitted"
	KindMessagePosted  Kind = "message_posted"
)

// Event is the closed set of inbound interaction events. Only types in this
// package can implement it.
type Event interface {
	Kind() Kind
	Meta() Envelope
	isEvent()
}

// Envelope carries metadata shared by every inbound event.
type Envelope struct {
	EventID   string
	OwnerID   string
	Timestamp time.Time
}

// Meta returns the envelope.
func (e Envelope) Meta() Envelope { return e }

// CommandInvoked is raised when a requester runs a slash command.
type CommandInvoked struct {
	Envelope
	CommandName string
}

func (CommandInvoked) Kind() Kind { return KindCommandInvoked }
func (CommandInvoked) isEvent()   {}

// SelectionMade is raised when a requester picks a value from a select control.
type SelectionMade struct {
	Envelope
	CorrelationID string
	ChosenValue   string
}

func (SelectionMade) Kind() Kind { return KindSelectionMade }
func (SelectionMade) isEvent()   {}

// FormFields are the free-text order details collected by the form.
type FormFields struct {
	Product string
	Price   string
}

// FormSubmitted is raised when a requester submits the order form.
type FormSubmitted struct {
	Envelope
	CorrelationID string
	Fields        FormFields
}

func (FormSubmitted) Kind() Kind { return KindFormSubmitted }
func (FormSubmitted) isEvent()   {}

// MessagePosted is raised for every ordinary chat message the bot can see.
type MessagePosted struct {
	Envelope
	// AuthorTag is the display identity shown to staff, e.g. "name#0001".
	AuthorTag       string
	GuildID         string
	HasGuildContext bool
	IsBotAuthor     bool
	Attachments     []Attachment
}

func (MessagePosted) Kind() Kind { return KindMessagePosted }
func (MessagePosted) isEvent()   {}

var (
	_ Event = CommandInvoked{}
	_ Event = SelectionMade{}
	_ Event = FormSubmitted{}
	_ Event = MessagePosted{}
)
