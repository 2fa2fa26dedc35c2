package timeline

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/vinayytyagi/lineup/modules/metadata"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

// TimelineModule builds timeline session controllers over the task and
// metadata modules. The api module receives it by direct injection and
// creates one session per client connection.
type TimelineModule struct {
	taskPort     taskmod.TaskPort
	metadataPort metadata.MetadataPort
}

// Compile-time interface checks.
var _ mono.Module = (*TimelineModule)(nil)
var _ mono.DependentModule = (*TimelineModule)(nil)
var _ mono.HealthCheckableModule = (*TimelineModule)(nil)

// NewModule creates a new TimelineModule.
func NewModule() *TimelineModule {
	return &TimelineModule{}
}

// Name returns the module name.
func (m *TimelineModule) Name() string {
	return "timeline"
}

// Dependencies returns the list of module dependencies.
func (m *TimelineModule) Dependencies() []string {
	return []string{"task", "metadata"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TimelineModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "task":
		m.taskPort = taskmod.NewTaskAdapter(container)
	case "metadata":
		m.metadataPort = metadata.NewMetadataAdapter(container)
	}
}

// Start validates wiring.
func (m *TimelineModule) Start(_ context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("task dependency not set")
	}
	if m.metadataPort == nil {
		return fmt.Errorf("metadata dependency not set")
	}
	log.Println("[timeline] Module started")
	return nil
}

// Stop shuts down the module.
func (m *TimelineModule) Stop(_ context.Context) error {
	log.Println("[timeline] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TimelineModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.taskPort != nil && m.metadataPort != nil,
		Message: "operational",
	}
}

// NewSession creates a controller for one client session. The source is
// picked from the mode: users get their own writable timeline, admins a
// read-only view of the target user, guests and loading sessions none.
func (m *TimelineModule) NewSession(mode Mode, sink Sink) *Controller {
	var source Source
	switch mode.Kind() {
	case KindUser:
		source = NewUserSource(m.taskPort, mode.UserID())
	case KindAdmin:
		source = NewAdminSource(m.taskPort, mode.UserID())
	}

	return NewController(Config{
		Mode:     mode,
		Source:   source,
		Metadata: m.metadataPort,
		Sink:     sink,
	})
}
