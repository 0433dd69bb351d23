package prompt

// OutputFormat controls how a submitted payload is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one `path=value` line per leaf.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// DefaultMaxAttempts bounds how often a field is asked again after failing
// validation.
const DefaultMaxAttempts = 3

// Theme captures optional prefixes for messages printed through the driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(r *Filler) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization used by Render.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Filler) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithMaxAttempts bounds re-prompting of invalid fields. Zero or less asks
// until the input is valid.
func WithMaxAttempts(n int) Option {
	return func(r *Filler) {
		r.maxAttempts = n
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Filler) {
		r.theme = theme
	}
}

// ParseOutputFormat maps a flag value to an OutputFormat, defaulting to JSON.
func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(s)
	default:
		return OutputFormatJSON
	}
}
