package notify

import (
	"errors"

	"fyne.io/fyne/v2"
)

// DesktopNotifier raises notifications through the running Fyne app.
// Delivery is permission-gated by the OS; a denied permission surfaces as
// a silently dropped notification, which is the intended degrade.
type DesktopNotifier struct {
	app fyne.App
}

// NewDesktopNotifier creates a notifier bound to the app.
func NewDesktopNotifier(app fyne.App) *DesktopNotifier {
	return &DesktopNotifier{app: app}
}

// Send raises a system notification.
func (notifier *DesktopNotifier) Send(title, body string) error {
	if notifier.app == nil {
		return errors.New("no app attached")
	}
	notifier.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}
