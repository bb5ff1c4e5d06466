package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnindent(t *testing.T) {
	in := `
		node "a" {
		  type = "Scale"
		}
	`
	assert.Equal(t, "node \"a\" {\n  type = \"Scale\"\n}", Unindent(in))
	assert.Equal(t, "", Unindent("\n\n"))
}
