package core

// Logger is any service that can record application events, locally or remotely.
// Args may carry structured context (errors, maps) appended to the message.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// PushChannel delivers silent wake payloads to the device after a delay.
// Delivery is best-effort; implementations must cancel any previously armed
// delivery for the same device before scheduling a new one.
type PushChannel interface {
	DeliverSilent(payload map[string]interface{}, afterSeconds int)
	Cancel()
}
