package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

func tier(t model.RiskTier) *model.RiskTier {
	return &t
}

func demoSystems() []model.AISystem {
	return []model.AISystem{
		{
			Name:        "CV Screening Assistant",
			Description: "Ranks job applications against role requirements.",
			Vendor:      "TalentSort",
			Purpose:     "Recruitment pre-screening",
			Department:  "HR",
			UseCase:     "employment",
			RiskTier:    tier(model.RiskTierHigh),
			Status:      model.SystemStatusDeployed,
		},
		{
			Name:        "Support Chatbot",
			Description: "Answers customer questions on the public website.",
			Vendor:      "In-house",
			Purpose:     "Customer support",
			Department:  "Customer Service",
			UseCase:     "chatbot",
			RiskTier:    tier(model.RiskTierLimited),
			Status:      model.SystemStatusDeployed,
		},
		{
			Name:        "Invoice Spam Filter",
			Description: "Flags unsolicited invoices in the accounts payable inbox.",
			Vendor:      "MailGuard",
			Purpose:     "Email filtering",
			Department:  "Finance",
			UseCase:     "spam_filter",
			RiskTier:    tier(model.RiskTierMinimal),
			Status:      model.SystemStatusDevelopment,
		},
		{
			Name:        "Credit Limit Model",
			Description: "Proposes credit limits for new business customers.",
			Vendor:      "In-house",
			Purpose:     "Creditworthiness evaluation",
			Department:  "Risk",
			UseCase:     "credit_scoring",
			Status:      model.SystemStatusDevelopment,
		},
	}
}

func demoModules() []model.TrainingModule {
	return []model.TrainingModule{
		{
			Title:           "EU AI Act Basics",
			Description:     "Scope, actors and the risk-based approach.",
			Content:         "## Why the AI Act matters\n\nThe regulation sorts AI systems into **four risk tiers**.\n\n- Unacceptable\n- High\n- Limited\n- Minimal\n",
			DurationMinutes: 30,
			Position:        1,
			IsPublished:     true,
		},
		{
			Title:           "High-Risk Obligations",
			Description:     "Risk management, data governance, logging and human oversight.",
			Content:         "## Provider obligations\n\nHigh-risk systems need a risk management system, technical documentation and a conformity assessment.\n",
			DurationMinutes: 45,
			RequiredRoles:   "admin,compliance_officer",
			Position:        2,
			IsPublished:     true,
		},
		{
			Title:           "Transparency for Chatbots",
			Description:     "Disclosure duties for limited-risk systems.",
			Content:         "## Telling users they talk to a machine\n\nPeople must be informed when they interact with an AI system.\n",
			DurationMinutes: 15,
			Position:        3,
			IsPublished:     true,
		},
	}
}

// Demo inserts the demo systems, training modules and glossary terms that
// are not present yet. Existing rows are left untouched.
func Demo(ctx context.Context, db *gorm.DB) (map[string]int, error) {
	terms, err := DemoTerms()
	if err != nil {
		return nil, fmt.Errorf("invalid demo glossary: %w", err)
	}

	created := map[string]int{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range demoSystems() {
			s := s
			ok, err := createIfAbsent(tx, &s, "name", s.Name)
			if err != nil {
				return err
			}
			if ok {
				created["ai_systems"]++
			}
		}
		for _, m := range demoModules() {
			m := m
			ok, err := createIfAbsent(tx, &m, "title", m.Title)
			if err != nil {
				return err
			}
			if ok {
				created["training_modules"]++
			}
		}
		for _, t := range terms {
			t := t
			ok, err := createIfAbsent(tx, &t, "term", t.Term)
			if err != nil {
				return err
			}
			if ok {
				created["regulatory_terms"]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func createIfAbsent[T any](tx *gorm.DB, row *T, column string, value any) (bool, error) {
	var existing T
	err := tx.Where(column+" = ?", value).Take(&existing).Error
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}
	if err := tx.Create(row).Error; err != nil {
		return false, fmt.Errorf("failed to create %v: %w", value, err)
	}
	return true, nil
}
