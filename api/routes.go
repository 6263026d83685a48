package api

// API routes, single source of truth for every remote operation.
const (
	RouteLogin  = "auth/login"
	RouteSignup = "auth/signup"
	RouteLogout = "auth/logout"

	RouteChatSend    = "chat/send"
	RouteChatHistory = "chat/history"
	RouteChatClear   = "chat/clear"

	RouteProducts = "products"
)
