package tui

// Color constants for pomo TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#2A1416" // Dark warm red
	ColorBorder         = "#4A3A3C" // Warm grey

	// Text Colors
	ColorPrimaryText   = "#F2E9E4" // Primary text (labels, titles)
	ColorSecondaryText = "#C9B8B4" // Secondary text - warm grey
	ColorDisabledText  = "#837678" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Tomato theme)
	ColorAccentMain   = "#E5484D" // Accent elements, active borders
	ColorAccentBright = "#FF8589" // Highlights, running timer
	ColorBreakAccent  = "#30A46C" // Break sessions

	// State Colors
	ColorError   = "#EF4444" // Errors
	ColorSuccess = "#22C55E" // Success, confirmations
	ColorWarning = "#F59E0B" // Paused state
)
