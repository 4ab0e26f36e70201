package models

// MembershipRole describes the authority a member holds within an entity.
type MembershipRole string

const (
	MembershipRoleLead   MembershipRole = "lead"
	MembershipRoleMember MembershipRole = "member"
)

// Membership records that a user belongs to an entity.
//
// The (user_id, entity_id) unique index is load-bearing: it closes the race
// window between concurrent acceptances at the store, not merely in
// application code.
type Membership struct {
	BaseModel

	UserID   string         `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_entity" json:"user_id"`
	EntityID string         `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_entity" json:"entity_id"`
	Role     MembershipRole `gorm:"not null;default:member" json:"role"`

	// DisplayName is denormalised from the user at join time.
	DisplayName string `json:"display_name"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Entity *Entity `gorm:"foreignKey:EntityID" json:"-"`
}
