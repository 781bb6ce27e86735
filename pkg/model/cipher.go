package model

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
)

var ErrNoCipher = errors.New("no data key cipher in database context")

type cipherContextKey struct{}

// WithCipher attaches the data key cipher to ctx. Models with encrypted
// columns look it up from the statement context in their hooks.
func WithCipher(ctx context.Context, c datakey.Cipher) context.Context {
	return context.WithValue(ctx, cipherContextKey{}, c)
}

// CipherFrom returns the cipher stored in ctx.
func CipherFrom(ctx context.Context) (datakey.Cipher, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(cipherContextKey{}).(datakey.Cipher)
	return c, ok && c != nil
}

func cipherForDB(tx *gorm.DB) (datakey.Cipher, error) {
	if tx == nil || tx.Statement == nil {
		return nil, ErrNoCipher
	}
	c, ok := CipherFrom(tx.Statement.Context)
	if !ok {
		return nil, ErrNoCipher
	}
	return c, nil
}
