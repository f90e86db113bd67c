package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsUnknownFlag(t *testing.T) {
	code := run([]string{"--not-a-real-flag"}, os.Stderr)
	assert.Equal(t, 1, code)
}
