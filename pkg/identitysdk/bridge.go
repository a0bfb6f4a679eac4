package identitysdk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dayplanr/identity/pkg/cryptox"
)

// Bridge errors. Origin mismatches are dropped silently on Deliver; the
// other errors complete the waiting flow.
var (
	ErrFlowSuperseded = errors.New("social login flow superseded by a newer flow")
	ErrFlowCanceled   = errors.New("social login flow canceled")
	ErrOriginMismatch = errors.New("callback message from unexpected origin")
	ErrStateMismatch  = errors.New("callback state mismatch")
	ErrProviderDenied = errors.New("provider returned an error")
)

// CallbackMessage is the payload the popup relay page posts to its opener.
type CallbackMessage struct {
	Source   string `json:"source"`
	Provider string `json:"provider"`
	Success  bool   `json:"success"`
	Code     string `json:"code,omitempty"`
	State    string `json:"state,omitempty"`
	Error    string `json:"error,omitempty"`
}

// callbackSource identifies messages from the relay page; anything else on
// the channel is ignored.
const callbackSource = "social-login-callback"

// Flow is one in-flight social login attempt.
type Flow struct {
	provider      string
	expectedState string

	once   sync.Once
	doneCh chan struct{}
	code   string
	err    error
}

// State returns the CSRF state bound to this flow, or "" for flows begun
// without one.
func (f *Flow) State() string { return f.expectedState }

func (f *Flow) complete(code string, err error) {
	f.once.Do(func() {
		f.code = code
		f.err = err
		close(f.doneCh)
	})
}

// Wait blocks until the popup delivers a result, the flow is canceled or
// superseded, or the context ends (popup closed without completing).
func (f *Flow) Wait(ctx context.Context) (string, error) {
	select {
	case <-f.doneCh:
		return f.code, f.err
	case <-ctx.Done():
		f.complete("", ErrFlowCanceled)
		return "", ctx.Err()
	}
}

// Cancel completes the flow with ErrFlowCanceled, e.g. when the user closes
// the popup.
func (f *Flow) Cancel() {
	f.complete("", ErrFlowCanceled)
}

// SocialBridge is the single-slot listener for popup callback messages.
// Only one social login flow can be in flight; beginning a new one tears
// down the previous occupant.
type SocialBridge struct {
	expectedOrigin string

	mu      sync.Mutex
	current *Flow
}

// NewSocialBridge creates a bridge accepting messages only from the given
// origin (the identity service origin serving the relay page).
func NewSocialBridge(expectedOrigin string) *SocialBridge {
	return &SocialBridge{expectedOrigin: expectedOrigin}
}

// Begin registers a new flow, superseding any current one. expectedState is
// compared against the delivered state for providers that echo it (Naver);
// leave it empty to skip the comparison.
func (b *SocialBridge) Begin(provider, expectedState string) *Flow {
	flow := &Flow{
		provider:      provider,
		expectedState: expectedState,
		doneCh:        make(chan struct{}),
	}

	b.mu.Lock()
	if prev := b.current; prev != nil {
		prev.complete("", ErrFlowSuperseded)
	}
	b.current = flow
	b.mu.Unlock()

	return flow
}

// BeginWithState registers a new flow bound to a freshly minted random
// state, for providers that echo the state back (Naver). The caller embeds
// flow.State() in the authorize URL; Deliver then fails the flow on any
// callback that does not echo it.
func (b *SocialBridge) BeginWithState(provider string) *Flow {
	return b.Begin(provider, cryptox.MustGenerateToken(cryptox.TokenSize128))
}

// Deliver routes a callback message to the current flow.
//
// Messages from the wrong origin or an unknown source are dropped without
// touching the flow; a mid-flight forged message must not kill a legitimate
// login. A state mismatch is a CSRF signal and fails the flow.
func (b *SocialBridge) Deliver(origin string, msg CallbackMessage) error {
	if origin != b.expectedOrigin {
		return ErrOriginMismatch
	}
	if msg.Source != callbackSource {
		return nil
	}

	b.mu.Lock()
	flow := b.current
	b.mu.Unlock()

	if flow == nil || flow.provider != msg.Provider {
		return nil
	}

	if msg.Error != "" || !msg.Success {
		flow.complete("", fmt.Errorf("%w: %s", ErrProviderDenied, msg.Error))
		return nil
	}

	if flow.expectedState != "" && msg.State != flow.expectedState {
		flow.complete("", ErrStateMismatch)
		return ErrStateMismatch
	}

	flow.complete(msg.Code, nil)
	return nil
}
