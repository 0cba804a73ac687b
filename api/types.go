package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	projectHandler projectHandler
	skillHandler   skillHandler
	contactHandler contactHandler
	uploadHandler  *uploadHandler
	healthHandler  healthHandler
}

type tokenResponse struct {
	Token string `json:"token"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactTestResponse struct {
	Msg       string `json:"msg"`
	MessageID string `json:"messageId"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
}
