package chatvolt

// ProxyRoute selects the collection served by the read proxy. It is a
// closed enumeration: ParseProxyRoute is the only way to obtain one from
// request input.
type ProxyRoute string

const (
	RouteProducts      ProxyRoute = "products"
	RouteAgents        ProxyRoute = "agents"
	RouteContacts      ProxyRoute = "contacts"
	RouteConversations ProxyRoute = "conversations"
	RouteStatus        ProxyRoute = "status"
)

// ProxyRoutes lists the valid routes, in the order documented to callers.
var ProxyRoutes = []ProxyRoute{
	RouteProducts,
	RouteAgents,
	RouteContacts,
	RouteConversations,
	RouteStatus,
}

// ParseProxyRoute maps a query value to a route, reporting whether it is known.
func ParseProxyRoute(s string) (ProxyRoute, bool) {
	switch ProxyRoute(s) {
	case RouteProducts, RouteAgents, RouteContacts, RouteConversations, RouteStatus:
		return ProxyRoute(s), true
	default:
		return "", false
	}
}

// RouteNames returns the valid route values as plain strings for error payloads.
func RouteNames() []string {
	names := make([]string, len(ProxyRoutes))
	for i, r := range ProxyRoutes {
		names[i] = string(r)
	}
	return names
}

// CommandType selects the write operation of the proxy POST path.
type CommandType string

const (
	CommandNewConversation    CommandType = "new_conversation"
	CommandUpdateConversation CommandType = "update_conversation"
	CommandNewContact         CommandType = "new_contact"
)

// ParseCommandType maps a request body type field to a command, reporting
// whether it is known.
func ParseCommandType(s string) (CommandType, bool) {
	switch CommandType(s) {
	case CommandNewConversation, CommandUpdateConversation, CommandNewContact:
		return CommandType(s), true
	default:
		return "", false
	}
}
