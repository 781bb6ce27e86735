package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

func (s *StepsContext) findUser(email string) (*model.User, error) {
	var user model.User
	if err := s.tc.DB.Where("email = ?", model.NormalizeEmail(email)).Take(&user).Error; err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	return &user, nil
}

// iAmSignedInAs mints a session token directly so scenarios stay under the
// login rate limit.
func (s *StepsContext) iAmSignedInAs(email string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(s.tc.JWTSecret, time.Hour)
	if err != nil {
		return err
	}
	s.authToken, _, err = issuer.Issue(user)
	return err
}

func (s *StepsContext) iLogInAs(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequest("POST", s.tc.ServerURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var login struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &login); err == nil {
			s.authToken = login.Token
		}
	}
	return nil
}

func (s *StepsContext) iShouldReceiveAValidSessionToken(email string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}
	if s.authToken == "" {
		return fmt.Errorf("no token in response: %s", string(s.responseBody))
	}

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(s.authToken, claims, func(token *jwt.Token) (interface{}, error) {
		return s.tc.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("token does not verify: %w", err)
	}

	if claims.Subject != strconv.FormatUint(uint64(user.ID), 10) {
		return fmt.Errorf("expected subject %d, got %q", user.ID, claims.Subject)
	}
	if claims.Role != user.Role {
		return fmt.Errorf("expected role %s, got %s", user.Role, claims.Role)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("token has no future expiry")
	}
	return nil
}

func (s *StepsContext) iUseAnExpiredSessionToken(email string) error {
	return s.signToken(email, s.tc.JWTSecret, time.Now().Add(-time.Minute))
}

func (s *StepsContext) iUseATokenSignedWithAnotherSecret(email string) error {
	return s.signToken(email, []byte("some-other-secret"), time.Now().Add(time.Hour))
}

func (s *StepsContext) signToken(email string, secret []byte, exp time.Time) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}
	claims := auth.Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s.authToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return err
}
