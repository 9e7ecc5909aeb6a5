package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnviron(t *testing.T) {
	c := FromEnviron([]string{"PORT=9090", "EMPTY=", "URL=postgres://a=b", "BARE"})

	assert.Equal(t, "9090", c["PORT"])
	assert.Equal(t, "postgres://a=b", c["URL"])
	assert.Equal(t, "", c["BARE"])
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestTypedGetters(t *testing.T) {
	c := Config{
		"INT":      "42",
		"BAD_INT":  "forty",
		"BOOL":     "true",
		"SECONDS":  "30",
		"DURATION": "15m",
		"LIST":     " a@x.io, ,b@x.io ",
	}

	assert.Equal(t, 42, GetInt(c, "INT", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.Equal(t, 7, GetInt(c, "MISSING", 7))
	assert.True(t, GetBool(c, "BOOL", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.Equal(t, 30*time.Second, GetDuration(c, "SECONDS", time.Minute))
	assert.Equal(t, 15*time.Minute, GetDuration(c, "DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetDuration(c, "MISSING", time.Minute))
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, GetList(c, "LIST"))
	assert.Nil(t, GetList(c, "MISSING"))
}
