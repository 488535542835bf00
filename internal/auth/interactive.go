package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"golang.org/x/oauth2"
)

// Static errors for err113 compliance.
var (
	ErrStateMismatch  = errors.New("authorization response state does not match")
	ErrAuthCodeDenied = errors.New("authorization was denied")
	ErrNoAuthCode     = errors.New("authorization response carried no code")
	ErrLoginTimeout   = errors.New("timed out waiting for the browser sign-in")
)

// runInteractiveFlow signs a user in through the system browser: it serves a
// one-shot loopback redirect endpoint, opens the authorization URL, and
// exchanges the returned code with PKCE.
func runInteractiveFlow(ctx context.Context, identity *IdentityClient, tenantID string, material *graph.InteractiveMaterial) (*Credential, error) {
	if material.OpenURL == nil {
		return nil, graph.ErrInteractiveUnavailable
	}

	if material.ClientID == "" {
		return nil, graph.ErrClientIDRequired
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to open loopback listener: %w", err)
	}

	redirectURL := fmt.Sprintf("http://%s/callback", listener.Addr().String())

	conf := &oauth2.Config{
		ClientID: material.ClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:  identity.endpoint(tenantID, "authorize"),
			TokenURL: identity.TokenEndpoint(tenantID),
		},
		RedirectURL: redirectURL,
		Scopes:      []string{identity.scope()},
	}

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	router := chi.NewRouter()
	router.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- ErrStateMismatch

			return
		}

		if authErr := query.Get("error"); authErr != "" {
			http.Error(w, authErr, http.StatusBadRequest)
			errCh <- fmt.Errorf("%w: %s (%s)", ErrAuthCodeDenied, authErr, query.Get("error_description"))

			return
		}

		code := query.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- ErrNoAuthCode

			return
		}

		fmt.Fprint(w, "Sign-in complete. You can close this window.")
		codeCh <- code
	})

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = server.Serve(listener)
	}()

	defer func() {
		_ = server.Close()
	}()

	err = material.OpenURL(conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)))
	if err != nil {
		return nil, fmt.Errorf("failed to open authorization URL: %w", err)
	}

	var code string

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(constants.InteractiveLoginTimeout):
		return nil, ErrLoginTimeout
	case err = <-errCh:
		return nil, err
	case code = <-codeCh:
	}

	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return &Credential{
		TenantID:    tenantID,
		Account:     material.ClientID,
		Flow:        material.Flow(),
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		ExpiresAt:   token.Expiry,
	}, nil
}
