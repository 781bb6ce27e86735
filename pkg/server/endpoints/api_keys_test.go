package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

// fakeClient answers for one provider; keys listed in bad fail with 401.
type fakeClient struct {
	provider model.Provider
	answer   string
	bad      map[string]bool
	calls    int
}

func (c *fakeClient) Provider() model.Provider { return c.provider }

func (c *fakeClient) Ask(ctx context.Context, key providers.Key, question string) (providers.Answer, error) {
	c.calls++
	if c.bad[key.Value] {
		return providers.Answer{}, apperror.External(string(c.provider), http.StatusUnauthorized, errors.New("invalid api key"))
	}
	return providers.Answer{Text: c.answer}, nil
}

func (c *fakeClient) Check(ctx context.Context, key providers.Key) error {
	if c.bad[key.Value] {
		return apperror.External(string(c.provider), http.StatusUnauthorized, errors.New("invalid api key"))
	}
	return nil
}

func TestListKeys(t *testing.T) {
	env := newTestEnv(t)
	env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderGemini, Value: "env-gemini-key-1234", Label: "env:1", Active: true})
	env.apiKeys.On("ListKeys").Return([]model.APIKey{
		{ID: 1, Provider: model.ProviderDeepSeek, Label: "primary", Key: "sk-deepseek-secret-9876", Fingerprint: "abc", IsActive: true},
	}, nil).Once()

	w := env.do("GET", "/api/api-keys", nil, adminUser)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "sk-deepseek-secret")
	assert.NotContains(t, w.Body.String(), "env-gemini-key")

	var views []KeyView
	decodeBody(t, w, &views)
	require.Len(t, views, 2)
	assert.Equal(t, "****9876", views[0].MaskedKey)
	assert.Equal(t, KeySourceDatabase, views[0].Source)
	assert.Equal(t, KeySourceEnvironment, views[1].Source)
	assert.Equal(t, "****1234", views[1].MaskedKey)
}

func TestAddKey(t *testing.T) {
	t.Run("officers are forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/api-keys", map[string]string{"provider": "gemini", "key": "abcdefghij"}, officerUser)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown provider", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/api-keys", map[string]string{"provider": "anthropic", "key": "abcdefghij"}, adminUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stores the key and reloads the manager", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.apiKeys.On("AddKey", mock.MatchedBy(func(k *model.APIKey) bool {
			return k.Provider == model.ProviderGemini && k.Key == "gm-new-key-5555" && k.Label == "backup"
		})).Run(func(args mock.Arguments) {
			k := args.Get(0).(*model.APIKey)
			k.ID = 12
			k.IsActive = true
			k.Fingerprint = model.Fingerprint(k.Key)
		}).Return(nil).Once()
		env.apiKeys.On("ListKeys").Return([]model.APIKey{
			{ID: 12, Provider: model.ProviderGemini, Key: "gm-new-key-5555", IsActive: true},
		}, nil).Once()

		w := env.do("POST", "/api/api-keys", map[string]string{
			"provider": "google_gemini",
			"key":      "gm-new-key-5555",
			"label":    "backup",
		}, adminUser)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "gm-new-key-5555")
		assert.Equal(t, 1, env.srv.KeyManager.ActiveCount(model.ProviderGemini))
	})

	t.Run("duplicate key", func(t *testing.T) {
		env := newTestEnv(t)
		env.apiKeys.On("AddKey", mock.Anything).Return(fmt.Errorf("%w: api_keys_fingerprint_key", store.ErrConflict)).Once()

		w := env.do("POST", "/api/api-keys", map[string]string{"provider": "deepseek", "key": "sk-duplicate"}, adminUser)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDeactivateKey(t *testing.T) {
	env := newTestEnv(t)
	env.allowActivities()
	env.apiKeys.On("GetKey", uint(4)).Return(&model.APIKey{ID: 4, Provider: model.ProviderDeepSeek, Key: "sk-old-key-0000"}, nil).Once()
	env.apiKeys.On("Deactivate", uint(4), "deactivated by admin@example.com", mock.AnythingOfType("time.Time")).Return(nil).Once()
	env.apiKeys.On("ListKeys").Return([]model.APIKey{}, nil).Once()

	w := env.do("DELETE", "/api/api-keys/4", nil, adminUser)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCheckKeys(t *testing.T) {
	client := &fakeClient{provider: model.ProviderDeepSeek, bad: map[string]bool{"sk-revoked": true}}
	env := newTestEnv(t, client)
	env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderDeepSeek, Value: "sk-good", Active: true})
	env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderDeepSeek, Value: "sk-revoked", Active: true})

	w := env.do("POST", "/api/api-keys/check", map[string]string{"provider": "deepseek"}, adminUser)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp CheckKeysResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Healthy[model.ProviderDeepSeek])
	assert.Equal(t, 1, env.srv.KeyManager.ActiveCount(model.ProviderDeepSeek))
}

func TestAsk(t *testing.T) {
	t.Run("answers from the first provider with keys", func(t *testing.T) {
		deepseek := &fakeClient{provider: model.ProviderDeepSeek, answer: "Article 6 defines high-risk systems."}
		env := newTestEnv(t, deepseek)
		env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderDeepSeek, Value: "sk-one", Active: true})

		w := env.do("POST", "/api/assistant/ask", map[string]string{"question": "What is high-risk?"}, viewerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var answer providers.Answer
		decodeBody(t, w, &answer)
		assert.Equal(t, model.ProviderDeepSeek, answer.Provider)
		assert.Contains(t, answer.Text, "Article 6")
	})

	t.Run("falls back when the first provider's keys are invalid", func(t *testing.T) {
		deepseek := &fakeClient{provider: model.ProviderDeepSeek, bad: map[string]bool{"sk-bad": true}}
		gemini := &fakeClient{provider: model.ProviderGemini, answer: "from gemini"}
		env := newTestEnv(t, deepseek, gemini)
		env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderDeepSeek, Value: "sk-bad", Active: true})
		env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderGemini, Value: "gm-good", Active: true})

		w := env.do("POST", "/api/assistant/ask", map[string]string{"question": "Who is a deployer?"}, viewerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var answer providers.Answer
		decodeBody(t, w, &answer)
		assert.Equal(t, model.ProviderGemini, answer.Provider)
		assert.Equal(t, 0, env.srv.KeyManager.ActiveCount(model.ProviderDeepSeek))
	})

	t.Run("no keys anywhere is an empty answer", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/assistant/ask", map[string]string{"question": "Anything?"}, viewerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"answer":""}`, w.Body.String())
	})

	t.Run("empty question", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/assistant/ask", map[string]string{"question": ""}, viewerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSearch(t *testing.T) {
	t.Run("query required", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("GET", "/api/search", nil, viewerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("num is bounded", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("GET", "/api/search?q=gpai&num=50", nil, viewerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("without google search keys the result is empty", func(t *testing.T) {
		env := newTestEnv(t, providers.NewGoogleSearchClient(&http.Client{Timeout: time.Second}, "cx"))
		require.NotNil(t, env.srv.Searcher)

		w := env.do("GET", "/api/search?q=gpai", nil, viewerUser)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"query":"gpai","results":[]}`, w.Body.String())
	})
}
