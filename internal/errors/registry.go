package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Codes for component diagnostics. The runtime reports these through the
// diagnostic channel; they never stop a document.
const (
	CodeInvalidAttribute = "TK101"
	CodeMissingAttribute = "TK102"
	CodeHookFailed       = "TK103"
	CodeRenderFailed     = "TK104"
	CodeFlushBudget      = "TK106"
	CodeHandlerFailed    = "TK107"
)

// Codes for tooling errors.
const (
	CodeInvalidConfig  = "TK120"
	CodeConfigNotFound = "TK121"
	CodeMarkupRead     = "TK140"
	CodeBadEventFlag   = "TK141"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Component diagnostics (TK100-TK119)
	// ============================================

	CodeInvalidAttribute: {
		Category: CategoryAttribute,
		Message:  "Invalid attribute value",
		Detail:   "The attribute value could not be converted to the declared type. The declared default is used instead.",
		DocURL:   "https://tagkit.dev/docs/errors/TK101",
	},
	CodeMissingAttribute: {
		Category: CategoryAttribute,
		Message:  "Missing required attribute",
		Detail:   "The component needs this attribute to identify what it shows. The declared default is used instead.",
		DocURL:   "https://tagkit.dev/docs/errors/TK102",
	},
	CodeHookFailed: {
		Category: CategoryLifecycle,
		Message:  "Lifecycle hook failed",
		Detail:   "An attach or detach hook returned an error or panicked. The transition completed and the component stays alive.",
		DocURL:   "https://tagkit.dev/docs/errors/TK103",
	},
	CodeRenderFailed: {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The render function returned an error or panicked. The previous output is left in place.",
		DocURL:   "https://tagkit.dev/docs/errors/TK104",
	},
	CodeFlushBudget: {
		Category: CategoryRender,
		Message:  "Render budget exceeded",
		Detail:   "Renders kept requesting further renders. Remaining work for this tick was dropped.",
		DocURL:   "https://tagkit.dev/docs/errors/TK106",
	},
	CodeHandlerFailed: {
		Category: CategoryEvent,
		Message:  "Event handler failed",
		Detail:   "An event handler returned an error or panicked. State written before the failure is kept.",
		DocURL:   "https://tagkit.dev/docs/errors/TK107",
	},

	// ============================================
	// Config Errors (TK120-TK139)
	// ============================================

	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file contains invalid values or syntax.",
		DocURL:   "https://tagkit.dev/docs/errors/TK120",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No tagkit.json or tagkit.yaml was found.",
		DocURL:   "https://tagkit.dev/docs/errors/TK121",
	},

	// ============================================
	// CLI Errors (TK140-TK159)
	// ============================================

	CodeMarkupRead: {
		Category: CategoryCLI,
		Message:  "Cannot read markup",
		Detail:   "The markup file could not be opened or parsed.",
		DocURL:   "https://tagkit.dev/docs/errors/TK140",
	},
	CodeBadEventFlag: {
		Category: CategoryCLI,
		Message:  "Invalid event",
		Detail:   "Events are written as selector:event or selector:event=value.",
		DocURL:   "https://tagkit.dev/docs/errors/TK141",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}
