package keymap

// DefaultBindings returns the default key bindings. Vim keys and arrows are
// both bound where a direction is involved.
func DefaultBindings() []Binding {
	return []Binding{
		// ============================================================
		// GLOBAL BINDINGS
		// ============================================================
		{Key: "q", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextGlobal, Description: "Toggle help"},
		{Key: "r", Command: CmdRefresh, Context: ContextGlobal, Description: "Reload"},
		{Key: "1", Command: CmdGoHome, Context: ContextGlobal, Description: "Home"},
		{Key: "2", Command: CmdGoSwipe, Context: ContextGlobal, Description: "Swipe"},
		{Key: "3", Command: CmdGoMap, Context: ContextGlobal, Description: "Map"},
		{Key: "4", Command: CmdGoPlaces, Context: ContextGlobal, Description: "Places"},
		{Key: "p", Command: CmdGoOnboarding, Context: ContextGlobal, Description: "Interests"},

		// ============================================================
		// HOME (carousel)
		// ============================================================
		{Key: "h", Command: CmdSlidePrev, Context: ContextHome, Description: "Previous"},
		{Key: "left", Command: CmdSlidePrev, Context: ContextHome, Description: "Previous"},
		{Key: "l", Command: CmdSlideNext, Context: ContextHome, Description: "Next"},
		{Key: "right", Command: CmdSlideNext, Context: ContextHome, Description: "Next"},
		{Key: "enter", Command: CmdOpenOnMap, Context: ContextHome, Description: "Show on map"},

		// ============================================================
		// ONBOARDING
		// The category form consumes everything else.
		// ============================================================
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextOnboarding, Description: "Quit"},
		{Key: "esc", Command: CmdCancel, Context: ContextOnboarding, Description: "Back"},

		// ============================================================
		// SWIPE
		// ============================================================
		{Key: "h", Command: CmdNudgeLeft, Context: ContextSwipe, Description: "Drag left"},
		{Key: "left", Command: CmdNudgeLeft, Context: ContextSwipe, Description: "Drag left"},
		{Key: "l", Command: CmdNudgeRight, Context: ContextSwipe, Description: "Drag right"},
		{Key: "right", Command: CmdNudgeRight, Context: ContextSwipe, Description: "Drag right"},
		{Key: "space", Command: CmdRelease, Context: ContextSwipe, Description: "Release drag"},
		{Key: "v", Command: CmdLike, Context: ContextSwipe, Description: "Like"},
		{Key: "x", Command: CmdDislike, Context: ContextSwipe, Description: "Dislike"},

		// ============================================================
		// MAP
		// ============================================================
		{Key: "j", Command: CmdCursorDown, Context: ContextMap, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextMap, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextMap, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextMap, Description: "Move up"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextMap, Description: "Go to top"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextMap, Description: "Go to bottom"},
		{Key: "ctrl+d", Command: CmdHalfPageDown, Context: ContextMap, Description: "Scroll detail down"},
		{Key: "ctrl+u", Command: CmdHalfPageUp, Context: ContextMap, Description: "Scroll detail up"},
		{Key: "enter", Command: CmdSelect, Context: ContextMap, Description: "Select"},
		{Key: "a", Command: CmdShowAll, Context: ContextMap, Description: "Show all"},
		{Key: "e", Command: CmdExpandPreview, Context: ContextMap, Description: "Expand preview"},
		{Key: "[", Command: CmdSlidePrev, Context: ContextMap, Description: "Previous place"},
		{Key: "]", Command: CmdSlideNext, Context: ContextMap, Description: "Next place"},
		{Key: "esc", Command: CmdClose, Context: ContextMap, Description: "Close panel"},

		// ============================================================
		// PLACES
		// ============================================================
		{Key: "j", Command: CmdCursorDown, Context: ContextPlaces, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextPlaces, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextPlaces, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextPlaces, Description: "Move up"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextPlaces, Description: "Go to top"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextPlaces, Description: "Go to bottom"},
		{Key: "c", Command: CmdCycleCategory, Context: ContextPlaces, Description: "Cycle category"},
		{Key: "s", Command: CmdCycleSortMode, Context: ContextPlaces, Description: "Cycle sort"},
		{Key: "/", Command: CmdSearch, Context: ContextPlaces, Description: "Search"},
		{Key: "o", Command: CmdRoute, Context: ContextPlaces, Description: "Route URL"},
		{Key: "enter", Command: CmdOpenOnMap, Context: ContextPlaces, Description: "Show on map"},
		{Key: "esc", Command: CmdSearchCancel, Context: ContextPlaces, Description: "Clear search"},

		// ============================================================
		// SEARCH
		// Printable keys go to the input before lookup.
		// ============================================================
		{Key: "enter", Command: CmdSearchConfirm, Context: ContextSearch, Description: "Apply search"},
		{Key: "esc", Command: CmdSearchCancel, Context: ContextSearch, Description: "Cancel search"},

		// ============================================================
		// HELP
		// ============================================================
		{Key: "esc", Command: CmdToggleHelp, Context: ContextHelp, Description: "Close help"},
	}
}

// RegisterDefaults registers all default bindings with the registry
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}
