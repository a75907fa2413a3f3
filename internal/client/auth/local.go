package auth

import (
	"context"
	"sync/atomic"
)

// Local is a session without a remote identity provider.
type Local struct {
	demo     bool
	signedIn atomic.Bool
}

// NewDemo returns a Local session that reports demo mode.
func NewDemo() *Local { return &Local{demo: true} }

// NewLocal returns a Local session for backends authenticated by static
// configuration.
func NewLocal() *Local { return &Local{} }

func (l *Local) SignIn(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.signedIn.Store(true)
	return nil
}

func (l *Local) SignOut(ctx context.Context) error {
	l.signedIn.Store(false)
	return nil
}

func (l *Local) IsSignedIn() bool { return l.signedIn.Load() }

func (l *Local) IsDemoMode() bool { return l.demo }
