package gymapi

import "context"

// Login exchanges credentials for a token pair. The request goes out
// without an Authorization header regardless of any attached token.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var pair TokenPair
	err := c.do(ctx, requestOpts{
		Method:   "POST",
		Path:     "/api/auth/login/",
		Body:     body,
		Out:      &pair,
		SkipAuth: true,
	})
	return pair, err
}

// Register creates a new account. Registration does not log the
// account in; callers follow up with Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, requestOpts{
		Method:   "POST",
		Path:     "/api/auth/register/",
		Body:     req,
		SkipAuth: true,
	})
}
