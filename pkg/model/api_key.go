package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// APIKey is a stored provider credential. The plaintext Key is never
// persisted: BeforeSave seals it into KeyCiphertext with the data key and
// AfterFind opens it again. The provider name is the AAD, so a ciphertext
// moved to another provider's row does not decrypt.
type APIKey struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Provider      Provider   `gorm:"type:text;not null" json:"provider"`
	Label         string     `json:"label"`
	Key           string     `gorm:"-" json:"-"`
	KeyCiphertext []byte     `gorm:"column:key_ciphertext;type:bytea;not null" json:"-"`
	Fingerprint   string     `gorm:"uniqueIndex;not null" json:"fingerprint"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	FailureCount  int        `json:"failure_count"`
	LastError     string     `json:"last_error,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

// Fingerprint identifies a key without revealing it.
func Fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// MaskKey keeps only the last four characters of a key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func (k *APIKey) BeforeSave(tx *gorm.DB) error {
	if k.Key == "" {
		return nil
	}

	c, err := cipherForDB(tx)
	if err != nil {
		return err
	}

	k.KeyCiphertext, err = c.Encrypt([]byte(k.Provider), []byte(k.Key))
	if err != nil {
		return fmt.Errorf("api key encryption failed for provider=%q", k.Provider)
	}
	k.Fingerprint = Fingerprint(k.Key)
	return nil
}

func (k *APIKey) AfterFind(tx *gorm.DB) error {
	if len(k.KeyCiphertext) == 0 {
		return nil
	}

	c, err := cipherForDB(tx)
	if err != nil {
		return err
	}

	plain, err := c.Decrypt([]byte(k.Provider), k.KeyCiphertext)
	if err != nil {
		return fmt.Errorf("api key decryption failed for id=%d provider=%q", k.ID, k.Provider)
	}
	k.Key = string(plain)
	return nil
}
