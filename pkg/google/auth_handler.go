package google

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/slotbook/slotbook/internal/config"
	"github.com/slotbook/slotbook/internal/rest"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

// GoogleAuth owns the OAuth flow that authorizes this deployment against the
// bookable calendar. The obtained token is persisted so the service survives
// restarts without re-authorizing.
type GoogleAuth struct {
	tokens      TokenRepo
	oauthConfig *oauth2.Config
}

func NewGoogleAuth(tokens TokenRepo, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/google/auth/callback",
		Scopes:       []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope},
	}

	return &GoogleAuth{tokens: tokens, oauthConfig: oauthConfig}
}

func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	if err := g.tokens.ReplaceNonce(r.Context(), stateNonce); err != nil {
		log.Errorf("failed to start Google authentication: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Failed to handle Google authentication",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	w.WriteHeader(http.StatusOK)
	encodeErr := json.NewEncoder(w).Encode(googleAuthRedirect{
		RedirectUrl: u,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	token, err := g.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	if err := g.tokens.StoreToken(r.Context(), nonce, token); err != nil {
		log.Errorf("unable to store Google auth token for nonce: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	log.Debug("Successfully stored Google auth token for nonce: ", nonce)
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

func (g *GoogleAuth) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := g.tokens.Delete(r.Context()); err != nil {
		log.Errorf("failed to remove Google authentication: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Failed to handle Google authentication",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// client returns an authorized HTTP client, or nil when the service has not
// been authenticated against Google yet.
func (g *GoogleAuth) client(ctx context.Context) (*http.Client, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	return g.oauthConfig.Client(ctx, token), nil
}
