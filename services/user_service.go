package services

import (
	"errors"
	"strings"

	"jobify/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type UpsertUserInput struct {
	Email      string      `json:"email" validate:"required,email"`
	Name       string      `json:"name" validate:"required"`
	Role       models.Role `json:"role" validate:"omitempty,oneof=student recruiter admin"`
	Avatar     string      `json:"avatar"`
	ExternalID string      `json:"external_id"` // identity provider id
}

// UpsertByEmail is the sign-in ingress: it creates the account on first
// sight of an email and refreshes mutable identity fields on later
// sign-ins. Returns created=true on first creation.
func (s *UserService) UpsertByEmail(in UpsertUserInput) (*models.User, bool, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", in.Email).Error
	if err == nil {
		if in.Name != "" {
			user.Name = in.Name
		}
		if in.Avatar != "" {
			user.Avatar = in.Avatar
		}
		if in.ExternalID != "" {
			user.ExternalID = &in.ExternalID
		}
		if err := s.DB.Save(&user).Error; err != nil {
			return nil, false, err
		}
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	user = models.User{
		ID:     uuid.NewString(),
		Email:  in.Email,
		Name:   in.Name,
		Role:   role,
		Status: models.UserStatusActive,
		Avatar: in.Avatar,
	}
	if in.ExternalID != "" {
		user.ExternalID = &in.ExternalID
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByExternalID resolves the identity-provider id set at sign-in.
func (s *UserService) GetByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	Name       string   `json:"name"`
	College    string   `json:"college"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
}

// UpdateProfile applies a partial update; empty fields are left untouched.
func (s *UserService) UpdateProfile(id string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.College != "" {
		user.College = in.College
	}
	if in.Skills != nil {
		user.Skills = in.Skills
	}
	if in.Experience != "" {
		user.Experience = in.Experience
	}

	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetStatus flips the admin suspend flag. Suspension blocks task
// completion and job applications but never erases the account.
func (s *UserService) SetStatus(id string, status models.UserStatus) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetResumeURL records where the uploaded resume landed.
func (s *UserService) SetResumeURL(id, url string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.ResumeURL = url
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type UserSummary struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Role        models.Role       `json:"role"`
	Status      models.UserStatus `json:"status"`
	TotalPoints int64             `json:"total_points"`
}

// Search is the admin directory view: substring match on name or email,
// optional role filter.
func (s *UserService) Search(query string, role models.Role, limit int) ([]UserSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.User{}).Limit(limit).Order("created_at ASC")
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}
	if role != "" {
		db = db.Where("role = ?", role)
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}

	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			Role:        u.Role,
			Status:      u.Status,
			TotalPoints: u.TotalPoints,
		}
	}
	return res, nil
}
