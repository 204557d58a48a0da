package domain

import "time"

// Reply is the closed set of responses the router sends back to a requester.
// Rendering is left to the gateway adapter.
type Reply interface {
	isReply()
}

// MethodPrompt asks the requester to choose a payment method.
type MethodPrompt struct {
	CorrelationID string
	Methods       []Method
}

// FormPrompt opens the order details form for a method.
type FormPrompt struct {
	CorrelationID string
	Method        Method
}

// PaymentInstructions confirms order creation and tells the requester how to pay.
type PaymentInstructions struct {
	Order       Order
	Destination Destination
}

// NoticeKind classifies plain-text notices.
type NoticeKind string

const (
	NoticeFailure       NoticeKind = "failure"
	NoticeConfiguration NoticeKind = "configuration"
	NoticeAcknowledged  NoticeKind = "acknowledged"
)

// Notice is a short text reply such as an error or an acknowledgement.
type Notice struct {
	Kind NoticeKind
	Text string
}

func (MethodPrompt) isReply()        {}
func (FormPrompt) isReply()          {}
func (PaymentInstructions) isReply() {}
func (Notice) isReply()              {}

// Notification is the structured report staff receive when proof is submitted.
type Notification struct {
	RequesterID  string
	RequesterTag string
	OrderID      string
	Method       Method
	Product      string
	Price        string
	ProofURL     string
	ProofName    string
	SubmittedAt  time.Time
}

// NewNotification composes the staff report for an order and its proof.
func NewNotification(order Order, requesterTag string, proof Attachment, at time.Time) Notification {
	return Notification{
		RequesterID:  order.OwnerID,
		RequesterTag: requesterTag,
		OrderID:      order.OrderID,
		Method:       order.Method,
		Product:      order.Product,
		Price:        order.Price,
		ProofURL:     proof.URL,
		ProofName:    proof.Name,
		SubmittedAt:  at,
	}
}
