package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func parseClaims(t *testing.T, token string) jwt.MapClaims {
    t.Helper()
    parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
        return []byte(testSecret), nil
    })
    require.NoError(t, err)
    require.True(t, parsed.Valid)
    claims, ok := parsed.Claims.(jwt.MapClaims)
    require.True(t, ok)
    return claims
}

func TestNewAccessTokenClaims(t *testing.T) {
    bid := uint64(42)
    at, err := NewAccessToken(testSecret, 7, "BUSINESS", &bid, 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(15*time.Minute), at.Exp, 5*time.Second)

    claims := parseClaims(t, at.Token)
    assert.Equal(t, float64(7), claims["sub"])
    assert.Equal(t, "BUSINESS", claims["role"])
    assert.Equal(t, float64(42), claims["bid"])
}

func TestNewAccessTokenOmitsBidForAdmins(t *testing.T) {
    at, err := NewAccessToken(testSecret, 3, "ADMIN", nil, 15)
    require.NoError(t, err)

    claims := parseClaims(t, at.Token)
    _, hasBid := claims["bid"]
    assert.False(t, hasBid)
}

func TestNewAccessTokenRejectsWrongSecret(t *testing.T) {
    at, err := NewAccessToken(testSecret, 7, "ADMIN", nil, 15)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte("other-secret"), nil
    })
    assert.Error(t, err)
}

func TestRefreshTokenHashIsStable(t *testing.T) {
    rt, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96)
    assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), rt.Exp, 5*time.Second)

    assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
    other, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.NotEqual(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(other.Raw))
}
