// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Stores expect a *gorm.DB prepared by db.Connect. When that handle carries
// the data key cipher (db.WithCipher), every query issued here keeps it, so
// the model hooks can seal and open API keys.
package gorm
