package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

// Parser validates HS256 access tokens issued by the auth service and
// extracts the caller's principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token claims")
	}

	userID, err := claimUUID(claims, "user_id")
	if err != nil {
		return model.Principal{}, err
	}
	orgID, err := claimUUID(claims, "org_id")
	if err != nil {
		return model.Principal{}, err
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return model.Principal{}, fmt.Errorf("role claim is missing")
	}

	return model.Principal{UserID: userID, OrgID: orgID, Role: role}, nil
}

func claimUUID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, _ := claims[key].(string)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s claim is missing", key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s claim is not a uuid", key)
	}
	return id, nil
}
