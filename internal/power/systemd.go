package power

import (
	"context"
	"fmt"

	sysdbus "github.com/coreos/go-systemd/v22/dbus"
)

// cpupowerUnit is the service that re-applies the governor at boot.
const cpupowerUnit = "cpupower.service"

// UnitManager abstracts the init system's unit operations so tuning can be
// tested without a system bus.
type UnitManager interface {
	// EnableUnit marks a unit for activation at boot
	EnableUnit(ctx context.Context, name string) error
	// StartUnit starts a unit now
	StartUnit(ctx context.Context, name string) error
	// Close releases the underlying connection
	Close()
}

// DBusUnitManager implements UnitManager over the systemd D-Bus API
type DBusUnitManager struct {
	conn *sysdbus.Conn
}

// NewDBusUnitManager connects to the system bus
func NewDBusUnitManager(ctx context.Context) (*DBusUnitManager, error) {
	conn, err := sysdbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	return &DBusUnitManager{conn: conn}, nil
}

// EnableUnit enables the unit for boot-time activation
func (m *DBusUnitManager) EnableUnit(ctx context.Context, name string) error {
	if _, _, err := m.conn.EnableUnitFilesContext(ctx, []string{name}, false, true); err != nil {
		return fmt.Errorf("failed to enable %s: %w", name, err)
	}
	return nil
}

// StartUnit starts the unit and waits for the job to finish
func (m *DBusUnitManager) StartUnit(ctx context.Context, name string) error {
	done := make(chan string, 1)
	if _, err := m.conn.StartUnitContext(ctx, name, "replace", done); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	select {
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("start job for %s finished with result %q", name, result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the bus connection
func (m *DBusUnitManager) Close() {
	m.conn.Close()
}
