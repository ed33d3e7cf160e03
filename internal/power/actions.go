package power

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/login1"
)

// Actions invokes the system's power facilities.
type Actions interface {
	Shutdown(ctx context.Context) error
	Reboot(ctx context.Context) error
}

// LogindActions powers the system off or reboots it through the logind
// D-Bus API. The connection is established per call so that a temporarily
// unavailable logind only fails that one action.
type LogindActions struct{}

func NewLogindActions() *LogindActions {
	return &LogindActions{}
}

func (a *LogindActions) Shutdown(ctx context.Context) error {
	conn, err := login1.New()
	if err != nil {
		return fmt.Errorf("connecting to logind: %w", err)
	}
	defer conn.Close()
	return conn.PowerOffWithContext(ctx, false)
}

func (a *LogindActions) Reboot(ctx context.Context) error {
	conn, err := login1.New()
	if err != nil {
		return fmt.Errorf("connecting to logind: %w", err)
	}
	defer conn.Close()
	return conn.RebootWithContext(ctx, false)
}
