package models

// User describes a platform participant and their accumulated reputation.
type User struct {
	BaseModel

	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `json:"display_name"`

	// TrustPoints only ever grows, through acceptance and completion awards.
	TrustPoints int `gorm:"not null;default:0" json:"trust_points"`

	Memberships []Membership  `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
	Requests    []JoinRequest `gorm:"foreignKey:SenderID" json:"-"`
}
