// Package tools provides the UI-control tools the agent can invoke.
//
// Each tool validates its arguments, emits a side-effect event through the
// delivery sink bound to the turn's context, and returns a short result
// string for the model. Tools behave identically with or without a live
// channel: delivery degrades to a logged no-op, so the reasoning loop can
// never observe channel absence as an error.
package tools

import (
	"fmt"
	"slices"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/koopa0/pilot/internal/delivery"
	"github.com/koopa0/pilot/internal/events"
	"github.com/koopa0/pilot/internal/log"
)

// Tool name constants registered with Genkit. The names double as the
// "action" discriminator of the events the tools emit.
const (
	NavigateName     = "navigate"
	NotificationName = "notification"
	UIActionName     = "uiAction"
)

// DefaultNotificationDurationMs is applied when the model omits a duration.
const DefaultNotificationDurationMs = 5000

// uiActionNames is the closed set of control actions the UI understands.
var uiActionNames = []string{"openModal", "closeModal", "refreshData", "updateTheme", "toggleSidebar"}

// severities is the closed set of notification severities.
var severities = []string{
	events.SeverityInfo,
	events.SeveritySuccess,
	events.SeverityWarning,
	events.SeverityError,
}

// NavigateInput defines input for the navigate tool.
type NavigateInput struct {
	Page string `json:"page" jsonschema_description:"The page the user wants to visit. Available options: home, dashboard, users, clients, analytics, calendar, user management, client management"`
}

// NotificationInput defines input for the notification tool.
type NotificationInput struct {
	Message    string `json:"message" jsonschema_description:"The notification message to display"`
	Severity   string `json:"severity" jsonschema_description:"The type of notification: info, success, warning, or error"`
	DurationMs int    `json:"durationMs,omitempty" jsonschema_description:"Display duration in milliseconds (optional, default 5000)"`
}

// UIActionInput defines input for the uiAction tool.
type UIActionInput struct {
	ActionName string `json:"actionName" jsonschema_description:"The UI action to perform: openModal, closeModal, refreshData, updateTheme, or toggleSidebar"`
	Payload    any    `json:"payload,omitempty" jsonschema_description:"Additional data for the action (optional)"`
}

// UI holds dependencies for the UI-control tool handlers.
// Use NewUI to create an instance, then Register to register with Genkit.
type UI struct {
	routes *RouteTable
	logger log.Logger
}

// NewUI creates a UI toolset. Fails if the route alias table is invalid.
func NewUI(logger log.Logger) (*UI, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	routes, err := NewRouteTable()
	if err != nil {
		return nil, fmt.Errorf("building route table: %w", err)
	}
	return &UI{routes: routes, logger: logger}, nil
}

// Names returns all registered tool names. Single source of truth for the
// capability report and tests.
func Names() []string {
	return []string{NavigateName, NotificationName, UIActionName}
}

// Register registers the UI-control tools with Genkit.
func Register(g *genkit.Genkit, ui *UI) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if ui == nil {
		return nil, fmt.Errorf("UI toolset is required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, NavigateName,
			"Navigate the user to a different page of the web application. "+
				"Use this whenever the user wants to go somewhere or visit a page. "+
				"Available pages: home, dashboard, users, clients, analytics, calendar "+
				"(plus aliases like 'user management' and 'client management').",
			ui.Navigate),
		genkit.DefineTool(g, NotificationName,
			"Show a notification message to the user on the frontend. "+
				"Severity must be one of: info, success, warning, error.",
			ui.Notify),
		genkit.DefineTool(g, UIActionName,
			"Perform a UI control action on the frontend, such as opening or closing "+
				"a modal, refreshing displayed data, updating the theme, or toggling the sidebar.",
			ui.PerformUIAction),
	}, nil
}

// Navigate resolves the requested page through the alias table and emits a
// navigate event to the current session.
func (u *UI) Navigate(ctx *ai.ToolContext, input NavigateInput) (string, error) {
	if strings.TrimSpace(input.Page) == "" {
		return "Error: page is required", nil
	}

	path := u.routes.Resolve(input.Page)
	delivery.Emit(ctx.Context, u.logger, events.NewNavigate(path, input.Page))
	u.logger.Info("navigation instruction sent", "path", path, "page", input.Page)

	return fmt.Sprintf("Successfully instructed frontend to navigate to %s", path), nil
}

// Notify emits a notification event to the current session.
// Invalid arguments are reported to the model as an error string so the
// reasoning loop can recover instead of aborting the turn.
func (u *UI) Notify(ctx *ai.ToolContext, input NotificationInput) (string, error) {
	if input.Message == "" {
		return "Error: message is required", nil
	}
	if !slices.Contains(severities, input.Severity) {
		return fmt.Sprintf("Error: unknown severity %q, must be one of: %s",
			input.Severity, strings.Join(severities, ", ")), nil
	}

	duration := input.DurationMs
	if duration <= 0 {
		duration = DefaultNotificationDurationMs
	}

	delivery.Emit(ctx.Context, u.logger, events.NewNotification(input.Message, input.Severity, duration))
	u.logger.Info("notification sent", "severity", input.Severity, "message", input.Message)

	return fmt.Sprintf("Notification sent: %s", input.Message), nil
}

// PerformUIAction emits a uiAction event to the current session.
func (u *UI) PerformUIAction(ctx *ai.ToolContext, input UIActionInput) (string, error) {
	if !slices.Contains(uiActionNames, input.ActionName) {
		return fmt.Sprintf("Error: unknown UI action %q, must be one of: %s",
			input.ActionName, strings.Join(uiActionNames, ", ")), nil
	}

	delivery.Emit(ctx.Context, u.logger, events.NewUIAction(input.ActionName, input.Payload))
	u.logger.Info("UI action sent", "action", input.ActionName)

	return fmt.Sprintf("UI action performed: %s", input.ActionName), nil
}
