// Package args classifies the arguments of a git commit invocation.
//
// The decision is driven by a declarative flag table so it can be tested
// without running git. Only the flags that change what the wrapper does are
// listed; any other argument is passed through to git untouched.
package args

import "strings"

// Kind says what a recognized flag means for the wrapper.
type Kind int

const (
	// Bypass flags skip generation and take no value (e.g. --help).
	Bypass Kind = iota
	// BypassValue flags skip generation when they carry a value (e.g. -m).
	BypassValue
	// BypassOptionalValue flags skip generation with or without a value.
	BypassOptionalValue
	// All includes unstaged changes to tracked files.
	All
	// Signoff appends a Signed-off-by trailer.
	Signoff
	// Amend regenerates the message of the last commit.
	Amend
	// Value flags take a value but do not affect the decision. In a short
	// cluster they end the cluster, since the rest is their value.
	Value
)

// Flag is one entry of the classification table.
type Flag struct {
	Long  string
	Short byte
	Kind  Kind
}

// Flags is the classification table for git commit options.
var Flags = []Flag{
	{Long: "help", Short: 'h', Kind: Bypass},
	{Long: "version", Kind: Bypass},
	{Long: "message", Short: 'm', Kind: BypassValue},
	{Long: "file", Short: 'F', Kind: BypassValue},
	{Long: "reuse-message", Short: 'C', Kind: BypassValue},
	{Long: "reedit-message", Short: 'c', Kind: BypassValue},
	{Long: "fixup", Kind: BypassOptionalValue},
	{Long: "squash", Kind: BypassOptionalValue},
	{Long: "all", Short: 'a', Kind: All},
	{Long: "signoff", Short: 's', Kind: Signoff},
	{Long: "amend", Kind: Amend},
	{Long: "template", Short: 't', Kind: Value},
	{Long: "gpg-sign", Short: 'S', Kind: Value},
	{Long: "untracked-files", Short: 'u', Kind: Value},
}

// Result is the outcome of classifying an argument list.
type Result struct {
	// Bypass is set when the user supplied their own message or asked for
	// help, so git commit should run unchanged.
	Bypass bool
	// Reason is the flag that triggered the bypass.
	Reason string
	// IncludeUnstaged is set by -a/--all.
	IncludeUnstaged bool
	// Signoff is set by -s/--signoff.
	Signoff bool
	// Amend is set by --amend.
	Amend bool
}

// Generate reports whether a message should be generated.
func (r Result) Generate() bool {
	return !r.Bypass
}

// Classify inspects the git commit arguments. Every rule is evaluated
// independently, so argument order does not matter. Tokens after a bare
// "--" are pathspecs and are ignored.
func Classify(args []string) Result {
	var r Result

	for i := 0; i < len(args); i++ {
		arg := args[i]
		hasNext := i+1 < len(args)

		switch {
		case arg == "--":
			return r
		case strings.HasPrefix(arg, "--"):
			r.applyLong(arg, hasNext)
		case len(arg) > 1 && arg[0] == '-':
			r.applyShort(arg, hasNext)
		}
	}
	return r
}

func (r *Result) applyLong(arg string, hasNext bool) {
	name, _, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	flag, ok := lookupLong(name)
	if !ok {
		return
	}

	switch flag.Kind {
	case BypassValue:
		if hasValue || hasNext {
			r.bypass(arg)
		}
	case Bypass, BypassOptionalValue:
		r.bypass(arg)
	default:
		if !hasValue {
			r.set(flag.Kind)
		}
	}
}

// applyShort handles a single short flag or a cluster such as -am. A value
// letter takes the rest of the cluster as its value, or the next token.
func (r *Result) applyShort(arg string, hasNext bool) {
	cluster := arg[1:]
	for j := 0; j < len(cluster); j++ {
		flag, ok := lookupShort(cluster[j])
		if !ok {
			continue
		}

		switch flag.Kind {
		case BypassValue:
			if j+1 < len(cluster) || hasNext {
				r.bypass(arg)
			}
			return
		case Value:
			return
		case Bypass, BypassOptionalValue:
			r.bypass(arg)
		default:
			r.set(flag.Kind)
		}
	}
}

func (r *Result) bypass(arg string) {
	if !r.Bypass {
		r.Bypass = true
		r.Reason = arg
	}
}

func (r *Result) set(kind Kind) {
	switch kind {
	case All:
		r.IncludeUnstaged = true
	case Signoff:
		r.Signoff = true
	case Amend:
		r.Amend = true
	}
}

func lookupLong(name string) (Flag, bool) {
	for _, f := range Flags {
		if f.Long == name {
			return f, true
		}
	}
	return Flag{}, false
}

func lookupShort(c byte) (Flag, bool) {
	for _, f := range Flags {
		if f.Short != 0 && f.Short == c {
			return f, true
		}
	}
	return Flag{}, false
}
