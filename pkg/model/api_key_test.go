package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
)

func txWithCipher(t *testing.T) *gorm.DB {
	t.Helper()
	c, err := datakey.New(make([]byte, 32))
	require.NoError(t, err)
	return &gorm.DB{Statement: &gorm.Statement{Context: WithCipher(context.Background(), c)}}
}

func TestAPIKeySealsWithProvider(t *testing.T) {
	tx := txWithCipher(t)

	k := &APIKey{Provider: ProviderDeepSeek, Key: "sk-test-1234"}
	require.NoError(t, k.BeforeSave(tx))
	assert.NotEmpty(t, k.KeyCiphertext)
	assert.NotContains(t, string(k.KeyCiphertext), "sk-test-1234")
	assert.Equal(t, Fingerprint("sk-test-1234"), k.Fingerprint)

	found := &APIKey{ID: 1, Provider: ProviderDeepSeek, KeyCiphertext: k.KeyCiphertext}
	require.NoError(t, found.AfterFind(tx))
	assert.Equal(t, "sk-test-1234", found.Key)

	moved := &APIKey{ID: 2, Provider: ProviderGemini, KeyCiphertext: k.KeyCiphertext}
	assert.Error(t, moved.AfterFind(tx))
}

func TestAPIKeyHooksNeedCipher(t *testing.T) {
	tx := &gorm.DB{Statement: &gorm.Statement{Context: context.Background()}}
	k := &APIKey{Provider: ProviderDeepSeek, Key: "sk-test-1234"}
	assert.ErrorIs(t, k.BeforeSave(tx), ErrNoCipher)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****1234", MaskKey("sk-test-1234"))
	assert.Equal(t, "****", MaskKey("abc"))
}
