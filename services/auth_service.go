package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reservedUsernames may not be registered.
var reservedUsernames = map[string]bool{"admin": true, "root": true, "system": true}

type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	InstitutionID *uuid.UUID
	Role          string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

func RegisterUser(in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	password := strings.TrimSpace(in.Password)

	if len(username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrValidation)
	}
	if strings.Contains(username, " ") {
		return nil, fmt.Errorf("%w: username cannot contain spaces", ErrValidation)
	}
	if reservedUsernames[strings.ToLower(username)] {
		return nil, fmt.Errorf("%w: username not allowed", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	var existing models.User
	err := config.DB.Where("username = ? OR email = ?", username, in.Email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: username or email already exists", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleClientAdmin
	}

	user := models.User{
		Username:       username,
		Email:          in.Email,
		HashedPassword: hashed,
		InstitutionID:  in.InstitutionID,
		Role:           role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(username, password string) (*TokenPair, error) {
	var user models.User
	err := config.DB.Where("username = ? AND status = ?", username, "ACTIVE").First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}

	if !utils.CheckPasswordHash(password, user.HashedPassword) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}

	access, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	config.DB.Save(&user)

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID.String(),
	}, nil
}

// RefreshAccessToken trades a valid refresh token for a new access token.
func RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: invalid or expired refresh token", ErrForbidden)
	}
	userID, err := utils.SubjectUUID(claims)
	if err != nil {
		return "", fmt.Errorf("%w: invalid token payload", ErrForbidden)
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		return "", fmt.Errorf("%w: user", ErrNotFound)
	}
	return utils.GenerateAccessToken(user.ID, user.Role)
}
