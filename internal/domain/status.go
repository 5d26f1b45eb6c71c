package domain

// Status is the lifecycle state of a delivery.
type Status string

// List of delivery statuses known to the backend
const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var allowedStatuses = [...]Status{
	StatusPending, StatusAccepted, StatusInTransit, StatusDelivered, StatusCancelled,
}

// Valid checks if the Status is one of the known lifecycle states
func (s Status) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Label returns a display name, e.g. "In Transit".
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusAccepted:
		return "Accepted"
	case StatusInTransit:
		return "In Transit"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Bucket is the client-side partition a delivery falls into.
type Bucket string

// Buckets
const (
	BucketActive Bucket = "active"
	BucketPast   Bucket = "past"
)

// Classify puts a status into the active or past bucket.
// Anything that is not terminal counts as active.
func Classify(s Status) Bucket {
	if s.Terminal() {
		return BucketPast
	}
	return BucketActive
}

// Split partitions deliveries into active and past, keeping input order.
func Split(all []Delivery) (active, past []Delivery) {
	active = make([]Delivery, 0, len(all))
	past = make([]Delivery, 0, len(all))
	for _, d := range all {
		if Classify(d.Status) == BucketPast {
			past = append(past, d)
			continue
		}
		active = append(active, d)
	}
	return active, past
}
