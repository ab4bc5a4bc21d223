// Package climasdk is a Go client for the clima API.
//
// Unauthenticated calls (register, login, health, the privacy policy) live on
// Client. Logging in returns a Session that carries the bearer token and the
// granted scopes:
//
//	c := climasdk.NewClient("http://localhost:8080")
//	if _, err := c.Register(ctx, climasdk.RegisterRequest{
//		Email:    "ana@example.com",
//		Password: "s3cret!",
//	}); err != nil {
//		return err
//	}
//
//	s, err := c.Login(ctx, "ana@example.com", "s3cret!")
//	if err != nil {
//		return err
//	}
//	me, err := s.Me(ctx)
//
// Sessions do not refresh. Once the token expires every call fails with
// ErrSessionExpired and the caller logs in again.
//
// Errors returned by the server are *Error values carrying the HTTP status
// and the error code from the response body:
//
//	var apiErr *climasdk.Error
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
//		// already registered
//	}
package climasdk
