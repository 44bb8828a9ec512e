package entity

import "time"

type OauthToken struct {
	EntityID uint      `gorm:"column:entity_id;primaryKey;autoIncrement"`
	Type     string    `gorm:"column:type;type:varchar(16);not null"`
	Token    string    `gorm:"column:token;type:varchar(32);not null;uniqueIndex"`
	OwnerID  *uint64   `gorm:"column:owner_id"`
	Secret   string    `gorm:"column:secret;type:varchar(32);not null"`
	Revoked  uint16    `gorm:"column:revoked;not null;default:0"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
}

func (OauthToken) TableName() string {
	return "oauth_token"
}
