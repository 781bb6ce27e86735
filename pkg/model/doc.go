// Package model defines the GORM models of the compliance database.
//
// # Tables
//
//   - users: accounts with a Role (admin, compliance_officer, viewer)
//   - ai_systems: registered AI systems and their RiskTier
//   - risk_assessments: assessments of a system
//   - training_modules, training_progress: AI literacy training
//   - approval_items, approval_assignments, approval_history: sign-off workflow
//   - activities: user-facing activity feed
//   - api_keys: provider credentials, encrypted with the data key
//   - regulatory_terms: glossary of EU AI Act terms
//
// Enumerations are integer types with enumer-generated text, JSON, YAML
// and SQL support, so they are stored as text columns.
package model
