// Package seed loads fixture users and demo content into the database.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/glossary"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// DefaultPassword is used for the demo users when none is given.
const DefaultPassword = "ChangeMe123!"

type UserSeed struct {
	Email      string     `yaml:"email"`
	Name       string     `yaml:"name"`
	Password   string     `yaml:"password,omitempty"`
	Role       model.Role `yaml:"role"`
	Department string     `yaml:"department,omitempty"`
}

type usersFile struct {
	Users []UserSeed `yaml:"users"`
}

// Result counts the rows a seed run inserted and updated.
type Result struct {
	Created int
	Updated int
}

// DefaultUsers returns one demo user per role, all with password.
func DefaultUsers(password string) []UserSeed {
	if password == "" {
		password = DefaultPassword
	}
	return []UserSeed{
		{Email: "admin@example.com", Name: "Ada Admin", Password: password, Role: model.RoleAdmin, Department: "IT"},
		{Email: "officer@example.com", Name: "Olga Officer", Password: password, Role: model.RoleComplianceOfficer, Department: "Legal"},
		{Email: "viewer@example.com", Name: "Victor Viewer", Password: password, Role: model.RoleViewer, Department: "Operations"},
	}
}

// LoadUsersFile reads users from a YAML file with a top-level users list.
// Entries without a password get defaultPassword.
func LoadUsersFile(path, defaultPassword string) ([]UserSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file usersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(file.Users) == 0 {
		return nil, fmt.Errorf("%s contains no users", path)
	}

	for i := range file.Users {
		if file.Users[i].Email == "" {
			return nil, fmt.Errorf("%s: user %d has no email", path, i+1)
		}
		if file.Users[i].Password == "" {
			file.Users[i].Password = defaultPassword
		}
	}
	return file.Users, nil
}

// Users creates or updates users by email. Existing users keep their id
// and get the seed's password, role and name; they are reactivated.
func Users(ctx context.Context, db *gorm.DB, seeds []UserSeed) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range seeds {
			hash, err := auth.HashPassword(s.Password)
			if err != nil {
				return fmt.Errorf("user %s: %w", s.Email, err)
			}

			var existing model.User
			err = tx.Where("email = ?", model.NormalizeEmail(s.Email)).Take(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				user := model.User{
					Email:        s.Email,
					Name:         s.Name,
					PasswordHash: hash,
					Role:         s.Role,
					Department:   s.Department,
					IsActive:     true,
				}
				if err := tx.Create(&user).Error; err != nil {
					return fmt.Errorf("failed to create %s: %w", s.Email, err)
				}
				res.Created++
			case err != nil:
				return err
			default:
				err := tx.Model(&existing).Updates(map[string]interface{}{
					"name":          s.Name,
					"password_hash": hash,
					"role":          s.Role,
					"is_active":     true,
				}).Error
				if err != nil {
					return fmt.Errorf("failed to update %s: %w", s.Email, err)
				}
				res.Updated++
			}
		}
		return nil
	})
	return res, err
}

//go:embed glossary.md
var demoGlossary []byte

// DemoTerms returns the glossary shipped with the demo data.
func DemoTerms() ([]model.RegulatoryTerm, error) {
	entries, err := glossary.Parse(demoGlossary)
	if err != nil {
		return nil, err
	}
	return TermsFromEntries(entries), nil
}

func TermsFromEntries(entries []glossary.Entry) []model.RegulatoryTerm {
	terms := make([]model.RegulatoryTerm, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, model.RegulatoryTerm{
			Term:       e.Term,
			Definition: e.Definition,
			Article:    e.Article,
			Category:   e.Category,
		})
	}
	return terms
}
