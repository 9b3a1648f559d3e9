package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconciler Errors (E010-E019)
	// ============================================

	"E010": {
		Category:   CategoryShape,
		Message:    "Component must return exactly one node",
		Suggestion: "Wrap multiple siblings in a single host element",
	},
	"E011": {
		Category:   CategoryReentrancy,
		Message:    "Render or update called during component evaluation",
		Suggestion: "Trigger updates from event handlers, never from a component body",
	},
	"E012": {
		Category:   CategoryRuntime,
		Message:    "Update called before the first commit",
		Suggestion: "Call Render and let the pass commit before calling Update",
	},
	"E013": {
		Category:   CategoryRuntime,
		Message:    "Render requires a host container",
	},
	"E014": {
		Category:   CategoryRuntime,
		Message:    "Render requires a root node",
	},
	"E015": {
		Category:   CategoryRuntime,
		Message:    "Render pass panicked",
		Suggestion: "The pass was dropped; fix the panicking component and render again",
	},

	// ============================================
	// Commit Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryHost,
		Message:  "Host mutation failed during commit",
	},

	// ============================================
	// Scheduler Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryScheduler,
		Message:  "Scheduler loop is closed",
	},

	// ============================================
	// Protocol Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryProtocol,
		Message:  "Malformed wire frame",
	},
	"E041": {
		Category: CategoryProtocol,
		Message:  "Unknown patch target",
	},
	"E042": {
		Category:   CategoryProtocol,
		Message:    "Unsupported listener type",
		Suggestion: "Bind listeners as func(), func(string) or func(wire.Event)",
	},
	"E043": {
		Category:   CategoryProtocol,
		Message:    "Patch sequence gap",
		Suggestion: "Reconnect to receive a fresh snapshot",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Invalid duration",
		Suggestion: "Use Go duration syntax such as \"16ms\" or \"1s\"",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E123": {
		Category:   CategoryConfig,
		Message:    "Unsupported configuration format",
		Suggestion: "Use a .json, .yaml or .yml file",
	},
	"E141": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create minifiber.json or pass --config",
	},

	// ============================================
	// Snapshot Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategorySnapshot,
		Message:  "Snapshot store failure",
	},
	"E151": {
		Category: CategorySnapshot,
		Message:  "Snapshot not found",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
