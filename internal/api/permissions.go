package api

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/godbus/dbus/v5"
	"golang.org/x/exp/slices"
)

// Authorizer decides whether the sender of a message may invoke a mutating
// method.
type Authorizer interface {
	Authorize(sender dbus.Sender) error
}

// PermissionGate authorizes a caller by resolving the unix user owning the
// bus connection and checking membership of the configured group. The
// identity comes from the bus daemon, never from the request payload, and
// every resolution failure is a denial.
type PermissionGate struct {
	group string

	resolveUID  func(sender dbus.Sender) (uint32, error)
	lookupUser  func(uid string) (*user.User, error)
	lookupGroup func(name string) (*user.Group, error)
	groupIds    func(u *user.User) ([]string, error)
}

func NewPermissionGate(conn *dbus.Conn, group string) *PermissionGate {
	return &PermissionGate{
		group: group,
		resolveUID: func(sender dbus.Sender) (uint32, error) {
			var uid uint32
			err := conn.BusObject().Call("org.freedesktop.DBus.GetConnectionUnixUser", 0, string(sender)).Store(&uid)
			return uid, err
		},
		lookupUser:  user.LookupId,
		lookupGroup: user.LookupGroup,
		groupIds:    (*user.User).GroupIds,
	}
}

func (g *PermissionGate) Authorize(sender dbus.Sender) error {
	uid, err := g.resolveUID(sender)
	if err != nil {
		return fmt.Errorf("cannot resolve caller identity: %w", err)
	}
	if uid == 0 {
		// root may always mutate
		return nil
	}

	caller, err := g.lookupUser(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return fmt.Errorf("cannot resolve user for uid %d: %w", uid, err)
	}
	authorized, err := g.lookupGroup(g.group)
	if err != nil {
		return fmt.Errorf("cannot resolve group '%s': %w", g.group, err)
	}
	memberOf, err := g.groupIds(caller)
	if err != nil {
		return fmt.Errorf("cannot resolve group memberships of %s: %w", caller.Username, err)
	}

	if !slices.Contains(memberOf, authorized.Gid) {
		return fmt.Errorf("user %s is not a member of group '%s'", caller.Username, g.group)
	}
	return nil
}
