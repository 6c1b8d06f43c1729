package ports

// Notifier delivers fire-and-forget messages to the user.
// This is a driven port (implemented by adapters).
type Notifier interface {
	Notify(title, message string)
}
