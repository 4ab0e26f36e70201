package models

// RequestDirection distinguishes a user asking to join from a lead inviting.
type RequestDirection string

const (
	RequestDirectionJoin   RequestDirection = "join"
	RequestDirectionInvite RequestDirection = "invite"
)

// Valid reports whether the direction is one of the closed set.
func (d RequestDirection) Valid() bool {
	return d == RequestDirectionJoin || d == RequestDirectionInvite
}

// RequestStatus captures the lifecycle state of a join request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether the request can no longer change state.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected || s == RequestStatusCancelled
}

// JoinRequest is a user's expressed interest in joining an entity.
// Pending is the only state from which a transition is possible; once
// resolved the row is immutable.
type JoinRequest struct {
	BaseModel

	SenderID string `gorm:"type:uuid;not null;index" json:"sender_id"`
	// EntityID is deliberately unconstrained: a request can outlive its
	// entity, and resolution reports that as an orphaned request.
	EntityID  string           `gorm:"type:uuid;not null;index" json:"entity_id"`
	Direction RequestDirection `gorm:"not null;default:join" json:"direction"`
	Status    RequestStatus    `gorm:"not null;default:pending;index" json:"status"`

	Message     string `json:"message"`
	ContactLink string `json:"contact_link"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
