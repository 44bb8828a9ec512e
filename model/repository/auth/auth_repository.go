package auth

import (
	"gorm.io/gorm"

	entity "inventory.GO/model/entity"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindActiveToken returns a non-revoked access token by its token string.
func (r *AuthRepository) FindActiveToken(token string) (*entity.OauthToken, error) {
	var t entity.OauthToken
	err := r.db.Where("token = ? AND type = 'access' AND revoked = 0", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
