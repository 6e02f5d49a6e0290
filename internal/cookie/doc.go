// Package cookie manages the session cookie carrying the signed login token.
//
// The token is already tamper-evident, so the manager does not sign or
// encrypt values. It applies the cookie attributes consistently to the login
// cookie and to its expired counterpart, and refuses values that would exceed the browser size limit.
//
//	m := cookie.NewFromConfig(cfg)
//	c, err := m.Cookie(token)
//	if err != nil {
//		return response.Error(err)
//	}
//	return response.WithCookie(response.RedirectSeeOther("/"), c)
package cookie
