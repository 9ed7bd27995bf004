package authenticator_test

import (
	"testing"
	"time"

	"github.com/rafflehub/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, "abc")
	require.Nil(t, err)

	var msg string
	err = engine.Verify(token, &msg)
	require.NoError(t, err)
	require.Equal(t, "abc", msg)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Nanosecond, "abc")
	require.Nil(t, err)

	var msg string
	err = engine.Verify(token, &msg)
	require.Error(t, err)
}

func TestJWTObject(t *testing.T) {
	type tokenObject struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, tokenObject{ID: "user1", Name: "foo"})
	require.NoError(t, err)

	var obj tokenObject
	err = engine.Verify(token, &obj)
	require.NoError(t, err)
	require.Equal(t, tokenObject{ID: "user1", Name: "foo"}, obj)
}
