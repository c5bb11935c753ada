package shared

// Asynq task type names. Kept here so api and worker agree without
// importing each other.
const (
	TypeCheckoutNotify = "book:checkout_notify"
	TypeReturnNotify   = "book:return_notify"
	TypeCheckoutDigest = "book:checkout_digest"
)

// CheckoutEventPayload is the body of checkout/return notification
// tasks. It carries snapshots so the worker can build the message even
// if the book changes before the task runs.
type CheckoutEventPayload struct {
	BookID    string `json:"book_id"`
	BookTitle string `json:"book_title"`
	OwnerID   string `json:"owner_id"`
	ActorName string `json:"actor_name"`
}
