package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactValidate(t *testing.T) {
	ct := Contact{UserID: 1, Name: "Jane", Email: "jane@example.com"}
	assert.NoError(t, ct.Validate())

	// The User association is a load target, not input; its zero value
	// must not fail validation
	assert.Zero(t, ct.User)

	ct.Name = ""
	assert.Error(t, ct.Validate())

	ct.Name = "Jane"
	ct.Email = "not-an-email"
	assert.Error(t, ct.Validate())
}
