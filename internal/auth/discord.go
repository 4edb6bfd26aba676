package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/3-lines-studio/gacha/internal/core"
	"github.com/3-lines-studio/gacha/internal/logging"
	"github.com/3-lines-studio/gacha/internal/session"
	"github.com/3-lines-studio/gacha/internal/users"
)

const DefaultAPIBase = "https://discord.com/api"

var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

var (
	verifierKey = session.NewKey[string]("auth.pkce_verifier")
	stateKey    = session.NewKey[string]("auth.csrf_state")
	returnKey   = session.NewKey[string]("auth.return_to")
	TokenKey    = session.NewKey[string]("auth.discord_token")
	UserKey     = session.NewKey[uuid.UUID]("auth.user_id")
)

var ErrIdentity = errors.New("discord identity request failed")

// Identity is the subset of the Discord user object the app keeps.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and APIBase default to Discord.
	Endpoint oauth2.Endpoint
	APIBase  string
}

type UserStore interface {
	UpsertByEmail(ctx context.Context, email string) (users.User, error)
	ByID(ctx context.Context, id uuid.UUID) (users.User, error)
	LinkDiscord(ctx context.Context, userID uuid.UUID, snowflake, email, avatarHash string) (users.DiscordAccount, error)
	SaveDiscordToken(ctx context.Context, tok users.DiscordToken) error
}

// Discord serves the Discord login flow.
type Discord struct {
	oauth    *oauth2.Config
	apiBase  string
	sessions *session.Manager
	users    UserStore
	client   *http.Client
	log      *logging.Logger
}

func NewDiscord(cfg Config, sessions *session.Manager, store UserStore, log *logging.Logger) *Discord {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = Endpoint
	}
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	return &Discord{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"identify", "email"},
		},
		apiBase:  strings.TrimSuffix(apiBase, "/"),
		sessions: sessions,
		users:    store,
		client:   http.DefaultClient,
		log:      log,
	}
}

// Routes returns the handler to mount under /auth.
func (d *Discord) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/discord", d.login)
	r.Get("/discord/redirect", d.callback)
	r.Get("/discord/me", d.me)
	r.Post("/logout", d.logout)
	return r
}

func (d *Discord) login(w http.ResponseWriter, r *http.Request) {
	s, err := d.sessions.Start(w, r)
	if err != nil {
		d.log.Error(err, "start session", nil)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	verifier := oauth2.GenerateVerifier()
	state := oauth2.GenerateVerifier()
	session.Put(s, verifierKey, verifier)
	session.Put(s, stateKey, state)

	if target, ok := core.SafeReturnPath(r.URL.Query().Get("returnto")); ok {
		session.Put(s, returnKey, target)
	} else {
		session.Remove(s, returnKey)
	}

	http.Redirect(w, r, d.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), http.StatusSeeOther)
}

func (d *Discord) callback(w http.ResponseWriter, r *http.Request) {
	s, err := d.sessions.Load(r)
	if err != nil {
		http.Error(w, "no login in progress", http.StatusBadRequest)
		return
	}

	expected, ok := session.Get(s, stateKey)
	got := r.URL.Query().Get("state")
	if !ok || got == "" || got != expected {
		session.Remove(s, stateKey)
		session.Remove(s, verifierKey)
		d.log.Warn("discord login state mismatch", nil)
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	session.Remove(s, stateKey)

	verifier, _ := session.Get(s, verifierKey)
	session.Remove(s, verifierKey)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, d.client)
	token, err := d.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		d.log.Error(err, "discord token exchange", nil)
		http.Error(w, "unable to get access token", http.StatusBadGateway)
		return
	}

	identity, err := d.identity(r.Context(), token.AccessToken)
	if err != nil {
		d.log.Error(err, "discord identity", nil)
		http.Error(w, "unable to get discord info", http.StatusBadGateway)
		return
	}

	user, err := d.link(r.Context(), identity, token)
	if err != nil {
		d.log.Error(err, "store discord user", nil)
		http.Error(w, "unable to store user", http.StatusInternalServerError)
		return
	}

	target, ok := session.Get(s, returnKey)
	if !ok {
		target = "/"
	}

	s, err = d.sessions.Renew(w, r)
	if err != nil {
		d.log.Error(err, "renew session", nil)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	session.Put(s, TokenKey, token.AccessToken)
	session.Put(s, UserKey, user.ID)

	d.log.Info("discord login", map[string]any{"user": user.ID.String()})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (d *Discord) link(ctx context.Context, id Identity, token *oauth2.Token) (users.User, error) {
	user, err := d.users.UpsertByEmail(ctx, id.Email)
	if err != nil {
		return users.User{}, err
	}
	if _, err := d.users.LinkDiscord(ctx, user.ID, id.ID, id.Email, id.Avatar); err != nil {
		return users.User{}, err
	}
	err = d.users.SaveDiscordToken(ctx, users.DiscordToken{
		UserID:       user.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	})
	if err != nil {
		return users.User{}, err
	}
	return user, nil
}

func (d *Discord) me(w http.ResponseWriter, r *http.Request) {
	s, err := d.sessions.Load(r)
	token, ok := session.Get(s, TokenKey)
	if err != nil || !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	identity, err := d.identity(r.Context(), token)
	if err != nil {
		http.Error(w, fmt.Sprintf("unable to get discord user info: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(identity)
}

func (d *Discord) logout(w http.ResponseWriter, r *http.Request) {
	d.sessions.Destroy(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *Discord) identity(ctx context.Context, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiBase+"/users/@me", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: status %d", ErrIdentity, resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("%w: decode: %v", ErrIdentity, err)
	}
	if id.ID == "" || id.Email == "" {
		return Identity{}, fmt.Errorf("%w: missing id or email", ErrIdentity)
	}
	return id, nil
}

// State builds the session store slice for r.
func (d *Discord) State(r *http.Request) map[string]any {
	state := map[string]any{"authenticated": false, "user": nil}

	s, err := d.sessions.Load(r)
	if err != nil {
		return state
	}
	id, ok := session.Get(s, UserKey)
	if !ok {
		return state
	}
	user, err := d.users.ByID(r.Context(), id)
	if err != nil {
		return state
	}

	state["authenticated"] = true
	state["user"] = map[string]any{"id": user.ID.String(), "email": user.Email}
	return state
}
