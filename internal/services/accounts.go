package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"campusresponse/internal/config"
	"campusresponse/internal/models"
	"campusresponse/internal/utils"

	"gorm.io/gorm"
)

// AccountInput is the minimum needed to create an account directly
// (seeding, fixtures). Role defaults to student.
type AccountInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      models.Role
	Phone     string
}

// RegisterInput 注册表单
type RegisterInput struct {
	Username        string `form:"username" validate:"required,max=150,username"`
	Email           string `form:"email" validate:"required,email,max=254"`
	FirstName       string `form:"first_name" validate:"required,max=30"`
	LastName        string `form:"last_name" validate:"required,max=30"`
	Password        string `form:"password1" validate:"required,min=8"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`
	Role            string `form:"role" validate:"required,role"`
	Phone           string `form:"phone" validate:"max=15"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
}

// EnsureProfile creates the role assignment for a user if it does not exist yet.
func EnsureProfile(tx *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{UserID: userID, Role: models.RoleStudent}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateAccount inserts a user and provisions its role assignment in tx.
// Registration, seeding and fixtures all go through here.
func CreateAccount(tx *gorm.DB, in AccountInput) (*models.User, error) {
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	profile, err := EnsureProfile(tx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != profile.Role || in.Phone != profile.Phone {
		profile.Role = role
		profile.Phone = in.Phone
		if err := tx.Save(profile).Error; err != nil {
			return nil, fmt.Errorf("assign role: %w", err)
		}
	}

	user.Profile = profile
	return &user, nil
}

// RegisterAccount validates the sign-up form and creates the account and its
// role assignment in one transaction.
func RegisterAccount(gdb *gorm.DB, in RegisterInput) (*models.User, error) {
	in.normalize()

	verr := validateStruct(&in)
	if !verr.empty() {
		return nil, verr
	}

	var user *models.User
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			verr.Add("username", "A user with that username already exists.")
		}
		if err := tx.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			verr.Add("email", "A user with that email already exists.")
		}
		if !verr.empty() {
			return verr
		}

		var err error
		user, err = CreateAccount(tx, AccountInput{
			Username:  in.Username,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Password:  in.Password,
			Role:      models.Role(in.Role),
			Phone:     in.Phone,
		})
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发注册：另一请求在检查之后抢先写入
		return nil, duplicateAccountError(gdb, in)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Registered account %s (%s)", user.Username, user.Role())
	return user, nil
}

// duplicateAccountError names the field that collided once the competing
// registration has committed. Username is assumed when it cannot be told.
func duplicateAccountError(gdb *gorm.DB, in RegisterInput) *ValidationError {
	usernameTaken := fieldError("username", "A user with that username already exists.")

	var count int64
	if err := gdb.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil || count > 0 {
		return usernameTaken
	}
	if err := gdb.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", in.Email).Count(&count).Error; err == nil && count > 0 {
		return fieldError("email", "A user with that email already exists.")
	}
	return usernameTaken
}

func Authenticate(gdb *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := gdb.Preload("Profile").Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func GetAccount(gdb *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := gdb.Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func ListAccounts(gdb *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := gdb.Preload("Profile").Order("username ASC").Find(&users).Error
	return users, err
}

// DeleteAccount removes an account. Reported incidents stay with a null
// reporter; notifications and the role assignment go with the account.
func DeleteAccount(gdb *gorm.DB, actor *models.User, id uint) error {
	if actor.Role() != models.RoleAdmin {
		return ErrPermissionDenied
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.Incident{}).Where("reporter_id = ?", id).
			Update("reporter_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		log.Printf("Deleted account %s by %s", user.Username, actor.Username)
		return nil
	})
}

// SeedAdmin creates the configured admin account once. Existing usernames are left alone.
func SeedAdmin(gdb *gorm.DB, seed config.SeedConfig) error {
	if seed.AdminUsername == "" {
		return nil
	}

	var count int64
	if err := gdb.Model(&models.User{}).Where("username = ?", seed.AdminUsername).Count(&count).Error; err != nil {
		return fmt.Errorf("check seed admin: %w", err)
	}
	if count > 0 {
		log.Println("Admin account already seeded, skipping")
		return nil
	}
	if seed.AdminPassword == "" {
		return fmt.Errorf("seed admin %q has no password", seed.AdminUsername)
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		user, err := CreateAccount(tx, AccountInput{
			Username: seed.AdminUsername,
			Email:    seed.AdminEmail,
			Password: seed.AdminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}
		log.Printf("Seeded admin account %s", user.Username)
		return nil
	})
}
