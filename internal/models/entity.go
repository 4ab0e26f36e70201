package models

// EntityKind distinguishes the two collaboration unit flavours.
type EntityKind string

const (
	EntityKindTeam    EntityKind = "team"
	EntityKindProject EntityKind = "project"
)

// Valid reports whether the kind is one of the closed set.
func (k EntityKind) Valid() bool {
	return k == EntityKindTeam || k == EntityKindProject
}

// EntityStatus captures the lifecycle state of a collaboration unit.
type EntityStatus string

const (
	EntityStatusOpen      EntityStatus = "open"
	EntityStatusCompleted EntityStatus = "completed"
	EntityStatusCancelled EntityStatus = "cancelled"
)

// Terminal reports whether no further lifecycle transition is possible.
func (s EntityStatus) Terminal() bool {
	return s == EntityStatusCompleted || s == EntityStatusCancelled
}

// Entity is a team or project users join through requests.
//
// RemainingSlots is the single source of truth for open positions. It is
// initialised to Size-1 (the lead holds the first seat) and only ever mutated
// by the guarded decrement inside the acceptance transaction.
type Entity struct {
	BaseModel

	Kind           EntityKind   `gorm:"not null;index" json:"kind"`
	Name           string       `gorm:"not null" json:"name"`
	Description    string       `json:"description"`
	OwnerID        string       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Size           int          `gorm:"not null" json:"size"`
	RemainingSlots int          `gorm:"not null" json:"remaining_slots"`
	Status         EntityStatus `gorm:"not null;default:open;index" json:"status"`

	Owner       *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Memberships []Membership `gorm:"foreignKey:EntityID" json:"memberships,omitempty"`
}
