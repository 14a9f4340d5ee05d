package app

import (
	"net/http"

	"go.uber.org/zap"

	"wasp/internal/domain"
	"wasp/internal/relay"
	identitysvc "wasp/internal/services/identity"
	messagesvc "wasp/internal/services/message"
	prekeysvc "wasp/internal/services/prekey"
	"wasp/internal/services/sessionmgr"
	"wasp/internal/store"
)

// Wire bundles every store, service, and client the CLI needs, built once
// per invocation from a Config.
type Wire struct {
	Identity domain.IdentityService
	PreKey   domain.PreKeyService
	Messages domain.MessageService
	Relay    domain.RelayClient
	Log      *zap.Logger

	IdentityStore domain.IdentityStore
	PreKeyStore   domain.PreKeyStore
	SessionStore  domain.SessionStore
	PendingStore  domain.PendingSessionStore
	BundleStore   domain.PreKeyBundleStore
	AccountStore  domain.AccountStore
	SessionMgr    domain.SessionManager

	RelayURL string
	HTTP     *http.Client
}

// NewWire constructs the full dependency graph from cfg. Every store is
// file-based and rooted at cfg.Home, encrypted at rest per
// internal/store/crypto_envelope.go.
func NewWire(cfg Config) (*Wire, error) {
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, err
		}
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	identityStore := store.NewIdentityFileStore(cfg.Home)
	preKeyStore := store.NewPreKeyFileStore(cfg.Home)
	bundleStore := store.NewPreKeyBundleFileStore(cfg.Home)
	sessionStore := store.NewSessionFileStore(cfg.Home)
	pendingStore := store.NewPendingSessionFileStore(cfg.Home)
	accountStore := store.NewAccountFileStore(cfg.Home)

	relayClient := relay.NewHTTP(cfg.RelayURL, httpClient)

	identitySvc := identitysvc.New(identityStore)
	preKeySvc := prekeysvc.New(identityStore, preKeyStore, logger)
	sessionMgr := sessionmgr.New()
	messageSvc := messagesvc.New(
		cfg.RelayURL,
		identityStore,
		preKeyStore,
		sessionStore,
		pendingStore,
		bundleStore,
		sessionMgr,
		relayClient,
		logger,
	)

	return &Wire{
		Identity: identitySvc,
		PreKey:   preKeySvc,
		Messages: messageSvc,
		Relay:    relayClient,
		Log:      logger,

		IdentityStore: identityStore,
		PreKeyStore:   preKeyStore,
		SessionStore:  sessionStore,
		PendingStore:  pendingStore,
		BundleStore:   bundleStore,
		AccountStore:  accountStore,
		SessionMgr:    sessionMgr,

		RelayURL: cfg.RelayURL,
		HTTP:     httpClient,
	}, nil
}
