package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InMemory(t *testing.T) {
	var out bytes.Buffer

	err := run(context.Background(), []string{"-n", "25"}, &out)

	require.NoError(t, err, out.String())
	assert.Contains(t, out.String(), "booked:      1\n")
	assert.Contains(t, out.String(), "unavailable: 24\n")
	assert.Contains(t, out.String(), "restored:    true\n")
}

func TestRun_RejectsNonPositiveN(t *testing.T) {
	err := run(context.Background(), []string{"-n", "0"}, &bytes.Buffer{})
	assert.Error(t, err)
}
