package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"panchayat-portal/internal/domain"
)

const ctxClaims = "claims"

// Sessions keeps the session in a signed cookie; there is no server-side store.
// Logout only drops the cookie, a copied token stays valid until it expires.
type Sessions struct {
	JWT      *JWTer
	Cookie   string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Issue signs a token for id and writes it as an HttpOnly cookie.
func (s *Sessions) Issue(w http.ResponseWriter, id domain.Identity) error {
	tok, exp, err := s.JWT.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie,
		Value:    tok,
		Path:     "/",
		Domain:   s.Domain,
		Expires:  exp,
		MaxAge:   int(s.JWT.TTL.Seconds()),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: s.SameSite,
	})
	return nil
}

func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie,
		Value:    "",
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   -1,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: s.SameSite,
	})
}

// Current decodes the session cookie, falling back to a Bearer header.
func (s *Sessions) Current(r *http.Request) (*Claims, error) {
	tok := ""
	if ck, err := r.Cookie(s.Cookie); err == nil {
		tok = ck.Value
	}
	if tok == "" {
		if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
			tok = strings.TrimPrefix(ah, "Bearer ")
		}
	}
	if tok == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.JWT.Parse(tok)
}

func SetClaims(c *gin.Context, cl *Claims) { c.Set(ctxClaims, cl) }

func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*Claims)
	return cl, ok && cl != nil
}
