package events

// Topic constants for domain events emitted by the platform.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicOrderCanceled      = "order.canceled"
	TopicProductUpdated     = "product.updated"
	TopicProductArchived    = "product.archived"
	TopicCartFlushed        = "cart.flushed"
)
