package theme

// DefaultTheme returns the base tokens every stylesheet starts from.
func DefaultTheme() Resolved {
	return Resolved{
		Colors: map[string]Palette{
			"black": {"DEFAULT": "#000000"},
			"white": {"DEFAULT": "#ffffff"},
			"gray": {
				"50": "#f9fafb", "100": "#f3f4f6", "200": "#e5e7eb", "300": "#d1d5db", "400": "#9ca3af",
				"500": "#6b7280", "600": "#4b5563", "700": "#374151", "800": "#1f2937", "900": "#111827",
			},
			"red": {
				"50": "#fef2f2", "100": "#fee2e2", "200": "#fecaca", "300": "#fca5a5", "400": "#f87171",
				"500": "#ef4444", "600": "#dc2626", "700": "#b91c1c", "800": "#991b1b", "900": "#7f1d1d",
			},
			"green": {
				"50": "#ecfdf5", "100": "#d1fae5", "200": "#a7f3d0", "300": "#6ee7b7", "400": "#34d399",
				"500": "#10b981", "600": "#059669", "700": "#047857", "800": "#065f46", "900": "#064e3b",
			},
		},
		Fonts: map[string][]string{
			"sans":  {"ui-sans-serif", "system-ui", "-apple-system", "Segoe UI", "Roboto", "Helvetica Neue", "Arial", "sans-serif"},
			"serif": {"ui-serif", "Georgia", "Cambria", "Times New Roman", "Times", "serif"},
			"mono":  {"ui-monospace", "SFMono-Regular", "Menlo", "Monaco", "Consolas", "Liberation Mono", "Courier New", "monospace"},
		},
	}
}
