package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Router Errors (E100-E149)
	// ============================================

	"E100": {
		Category: CategoryRouter,
		Message:  "Route not found",
		Detail:   "No registered pattern matches the requested path.",
	},
	"E101": {
		Category: CategoryRouter,
		Message:  "Route handler failed",
	},
	"E102": {
		Category: CategoryRouter,
		Message:  "No routes registered",
		Detail:   "Register routes before handling navigation.",
	},
	"E103": {
		Category: CategoryRouter,
		Message:  "Invalid route pattern",
	},
	"E104": {
		Category: CategoryRouter,
		Message:  "Route handler panicked",
	},

	// ============================================
	// State Errors (E150-E199)
	// ============================================

	"E150": {
		Category: CategoryState,
		Message:  "Persisted state is corrupt",
		Detail:   "The stored state record could not be decoded; defaults were applied.",
	},
	"E151": {
		Category: CategoryState,
		Message:  "State subscriber panicked",
	},

	// ============================================
	// Storage Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryStorage,
		Message:  "Storage read failed",
	},
	"E201": {
		Category: CategoryStorage,
		Message:  "Storage write failed",
	},
	"E202": {
		Category: CategoryStorage,
		Message:  "Unknown storage backend",
	},

	// ============================================
	// Auth Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryAuth,
		Message:  "Invalid email or password",
	},
	"E301": {
		Category: CategoryAuth,
		Message:  "Email already registered",
	},
	"E302": {
		Category: CategoryAuth,
		Message:  "Not authenticated",
	},
	"E303": {
		Category: CategoryAuth,
		Message:  "Session expired",
	},
	"E304": {
		Category: CategoryAuth,
		Message:  "Invalid registration",
	},
	"E305": {
		Category: CategoryAuth,
		Message:  "Permission denied",
	},

	// ============================================
	// Data Errors (E400-E449)
	// ============================================

	"E400": {
		Category: CategoryData,
		Message:  "User not found",
	},
	"E401": {
		Category: CategoryData,
		Message:  "Contract not found",
	},
	"E402": {
		Category: CategoryData,
		Message:  "Template not found",
	},
	"E403": {
		Category: CategoryData,
		Message:  "Organization not found",
	},
	"E404": {
		Category: CategoryData,
		Message:  "Invalid contract",
	},

	// ============================================
	// Component Errors (E450-E499)
	// ============================================

	"E450": {
		Category: CategoryComponent,
		Message:  "Failed to load component",
	},
	"E451": {
		Category: CategoryComponent,
		Message:  "Unknown action",
	},

	// ============================================
	// Config Errors (E500-E599)
	// ============================================

	"E500": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E501": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
