package models

// Follow is a directed edge meaning FollowerID observes FollowedID.
// The composite primary key allows at most one edge per ordered pair.
type Follow struct {
	FollowerID uint  `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint  `gorm:"primaryKey;autoIncrement:false;index:idx_followers_followed_id" json:"followed_id"`
	Follower   *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   *User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "followers"
}
