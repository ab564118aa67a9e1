package alert

// Notification is a single alert to be delivered to an external platform.
type Notification struct {
	// Short headline of the alert.
	Title string

	// Body text of the alert.
	Message string

	// Optional structured context attached to the alert.
	Data map[string]interface{}
}

type Handler interface {
	// Handle is responsible for delivering the notification.
	// Delivery failures are reported through the handler's own
	// side channel, never to the caller.
	Handle(n Notification)
}
