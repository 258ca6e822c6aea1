package chatvolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProxyRoute(t *testing.T) {
	for _, name := range RouteNames() {
		route, ok := ParseProxyRoute(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, string(route))
	}

	for _, bad := range []string{"", "product", "PRODUCTS", "webhook", "config"} {
		_, ok := ParseProxyRoute(bad)
		assert.False(t, ok, bad)
	}
}

func TestRouteNames(t *testing.T) {
	assert.Equal(t, []string{"products", "agents", "contacts", "conversations", "status"}, RouteNames())
}

func TestParseCommandType(t *testing.T) {
	for _, name := range []string{"new_conversation", "update_conversation", "new_contact"} {
		cmd, ok := ParseCommandType(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, string(cmd))
	}

	for _, bad := range []string{"", "delete_conversation", "New_Conversation", "new_agent"} {
		_, ok := ParseCommandType(bad)
		assert.False(t, ok, bad)
	}
}
