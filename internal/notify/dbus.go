//go:build linux

package notify

import (
	"slices"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
)

// busNotifier talks to the session bus notification daemon.
type busNotifier struct {
	obj      dbus.BusObject
	bodyless bool // daemon only shows the summary
}

// New connects to the session bus. Without a bus it returns a notifier
// that drops everything.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return stubNotifier{}, nil //nolint:nilerr // no session bus, notifications are optional
	}

	n := &busNotifier{obj: conn.Object(busName, dbus.ObjectPath(busPath))}
	var caps []string
	if err := n.obj.Call(busName+".GetCapabilities", 0).Store(&caps); err == nil {
		n.bodyless = !slices.Contains(caps, "body")
	}
	return n, nil
}

// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
func (n *busNotifier) Notify(notif Notification) (uint32, error) {
	summary, body := notif.Title, notif.Body
	if n.bodyless && body != "" {
		summary, body = summary+" - "+body, ""
	}
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
	}

	var id uint32
	err := n.obj.Call(busMethod, 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		summary,
		body,
		[]string{},
		hints,
		notif.Timeout,
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (n *busNotifier) Close(id uint32) error {
	return n.obj.Call(busName+".CloseNotification", 0, id).Err
}
