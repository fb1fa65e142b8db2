package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/auth"
	"github.com/andyleap/mockapi/internal/oauth"
)

type OAuthAPIHandlers struct {
	oauthService *oauth.OAuthService
	baseURL      string
}

func NewOAuthAPIHandlers(oauthService *oauth.OAuthService, baseURL string) *OAuthAPIHandlers {
	return &OAuthAPIHandlers{
		oauthService: oauthService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

type revokeRequest struct {
	Token         string `json:"token"`
	TokenTypeHint string `json:"token_type_hint"`
}

// TokenHandler issues tokens for every supported grant
// POST /oauth/token
func (oh *OAuthAPIHandlers) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var request oauth.TokenRequest
	if err := decodeRequest(r, &request); err != nil {
		apierr.Write(w, err)
		return
	}

	// client_secret_basic
	if request.ClientID == "" {
		if id, secret, ok := r.BasicAuth(); ok {
			request.ClientID = id
			request.ClientSecret = secret
		}
	}

	response, err := oh.oauthService.Token(r.Context(), request)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, response)
}

// AuthorizeHandler mints an authorization code without a login step
// GET /oauth/authorize?response_type=code&client_id=web-app&redirect_uri=...&state=xyz
func (oh *OAuthAPIHandlers) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	var request oauth.AuthorizeRequest
	bindValues(r.URL.Query(), &request)

	response, err := oh.oauthService.Authorize(r.Context(), request)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// IntrospectHandler reports whether a token is active
// POST /oauth/introspect
func (oh *OAuthAPIHandlers) IntrospectHandler(w http.ResponseWriter, r *http.Request) {
	var request introspectRequest
	if err := decodeRequest(r, &request); err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, oh.oauthService.Introspect(request.Token))
}

// RevokeHandler revokes a refresh token
// POST /oauth/revoke
func (oh *OAuthAPIHandlers) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	var request revokeRequest
	if err := decodeRequest(r, &request); err != nil {
		apierr.Write(w, err)
		return
	}

	if err := oh.oauthService.Revoke(r.Context(), request.Token, request.TokenTypeHint); err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UserInfoHandler returns the claims of the bearer token, or usage help when
// the request carries none.
// GET /oauth/userinfo
func (oh *OAuthAPIHandlers) UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.BearerToken(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Use Authorization header with Bearer token to access this endpoint",
			"example": "Authorization: Bearer <access_token>",
		})
		return
	}

	claims, err := oh.oauthService.UserInfo(token)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, claims)
}

// MetadataHandler serves the RFC 8414 server metadata
// GET /oauth/.well-known/oauth-authorization-server
func (oh *OAuthAPIHandlers) MetadataHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, oh.oauthService.Metadata(oh.baseURL))
}

// decodeRequest fills v from a form-encoded or JSON body. An empty body
// leaves v untouched so validation reports the missing fields.
func decodeRequest(r *http.Request, v any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return apierr.BadRequest("Invalid form body")
		}
		bindValues(r.PostForm, v)
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return apierr.BadRequest("Invalid JSON body")
	}
	return nil
}

// bindValues copies the first value of each parameter into the string field
// whose json tag names it.
func bindValues(values url.Values, v any) {
	rv := reflect.ValueOf(v).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		if name == "" || !values.Has(name) {
			continue
		}
		if f := rv.Field(i); f.Kind() == reflect.String {
			f.SetString(values.Get(name))
		}
	}
}
