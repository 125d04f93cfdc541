package models

// MessagePublisher interface for publishing recommendations
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
