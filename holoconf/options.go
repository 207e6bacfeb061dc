package holoconf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rfestag/holoconf/resolver"
)

// Flags holds CLI flag names for holoconf's resolver policy, allowing
// callers to customize flag names while keeping sensible defaults via
// [NewOptions] — the same Flags/Options split the teacher uses for its own
// CLI-configured components (see log.Flags, magicschema.Flags).
type Flags struct {
	FileRoots  string
	HTTP       string
	HTTPAllow  string
	HTTPScheme string
}

// NewOptions creates a new [Options] embedding these flag names.
func (f Flags) NewOptions() *Options {
	return &Options{Flags: f}
}

// Options bundles the policy a [Config] resolves under: which resolvers are
// registered, which directories the file resolver may read from, and
// whether/how the http(s) resolvers may reach the network (spec §4.2, §6
// "Options bundle").
//
// Create instances with [NewOptions] and register CLI flags with
// [Options.RegisterFlags], or set fields directly for programmatic use.
type Options struct {
	// Registry is consulted for every Call's resolver name. Nil means
	// [resolver.NewDefaultRegistry].
	Registry *resolver.Registry

	// FileRoots restricts the file resolver; empty means unrestricted.
	FileRoots resolver.FileRoots

	// HTTP configures the http/https resolvers; nil means disabled.
	HTTP *resolver.HTTPConfig

	Flags Flags

	fileRootsCSV string
	httpEnabled  bool
	httpAllowCSV string
}

// NewOptions returns an [*Options] with zero-value policy (no file roots
// restriction, HTTP disabled, default registry) and default flag names.
func NewOptions() *Options {
	f := Flags{
		FileRoots:  "file-root",
		HTTP:       "allow-http",
		HTTPAllow:  "http-allow",
		HTTPScheme: "insecure-http",
	}

	return f.NewOptions()
}

// RegisterFlags adds holoconf resolver-policy flags to flags.
func (o *Options) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.fileRootsCSV, o.Flags.FileRoots, "",
		"comma-separated directories the file: resolver may read from (default: unrestricted)")
	flags.BoolVar(&o.httpEnabled, o.Flags.HTTP, false,
		"allow the http:/https: resolvers to make network requests")
	flags.StringVar(&o.httpAllowCSV, o.Flags.HTTPAllow, "",
		"comma-separated glob allow-list for http:/https: URLs (default: unrestricted once enabled)")
}

// RegisterCompletions registers shell completions for holoconf flags on cmd.
func (o *Options) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{o.Flags.HTTPAllow} {
		if err := cmd.RegisterFlagCompletionFunc(flag, noFileComp); err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// Resolve finalizes the Options after flag parsing, turning the comma-
// separated flag-backed strings into the Registry/FileRoots/HTTP fields a
// [Config] needs. Safe to call on an Options built entirely
// programmatically (without flags) too — CSV fields default to empty.
func (o *Options) Resolve() {
	if o.Registry == nil {
		o.Registry = resolver.NewDefaultRegistry()
	}

	if o.fileRootsCSV != "" {
		for _, root := range splitCSV(o.fileRootsCSV) {
			abs, err := filepath.Abs(root)
			if err != nil {
				continue
			}

			o.FileRoots = append(o.FileRoots, filepath.Clean(abs))
		}
	}

	if o.HTTP == nil {
		o.HTTP = &resolver.HTTPConfig{}
	}

	if o.httpEnabled {
		o.HTTP.Enabled = true
	}

	if o.httpAllowCSV != "" {
		o.HTTP.AllowedGlobs = append(o.HTTP.AllowedGlobs, splitCSV(o.httpAllowCSV)...)
	}
}

func splitCSV(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
