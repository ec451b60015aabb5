package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner_NonTTYReturnsPlainText(t *testing.T) {
	// go test's stdout is never a TTY, so isTTY() is false here.
	assert.Equal(t, "tourflow optimizer", banner())
}
