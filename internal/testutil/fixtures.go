package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dwight/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates an active user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// DeactivateTestUser flips is_active off for user.
func DeactivateTestUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()

	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate test user: %v", err)
	}
	user.IsActive = false
}

// CreateTestHolding creates a stock holding of 10 units at 150.00 for ownerID.
func CreateTestHolding(t *testing.T, db *gorm.DB, ownerID, symbol string) *models.Holding {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	holding := &models.Holding{
		OwnerID:    ownerID,
		Symbol:     symbol,
		Quantity:   10,
		UnitCost:   150,
		AcquiredAt: now,
		Category:   models.AssetCategoryStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}
