package order

type Status string

const (
	StatusOrderPlaced    Status = "Order Placed"
	StatusPaymentPending Status = "Payment Pending"
	StatusPacking        Status = "Packing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// transitions is the closed set of admin-visible moves. Delivered and
// Cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPaymentPending: {StatusOrderPlaced, StatusCancelled},
	StatusOrderPlaced:    {StatusPacking, StatusCancelled},
	StatusPacking:        {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}
