// Package flagx lets several independent flag sets share os.Args: each
// loader keeps only the arguments it owns before calling flag.Parse.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps the flags listed in owned, together with their values.
//
// Both "-k value" and "-k=value" forms are recognized. A token that follows an
// owned flag is taken as its value unless it starts with "-". Everything else
// is dropped, so the result can be parsed by a FlagSet that only knows the
// owned names. The returned slice is never nil.
func FilterArgs(args []string, owned []string) []string {
	set := make(map[string]bool, len(owned))
	for _, name := range owned {
		set[name] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, found := strings.Cut(arg, "="); found {
			if set[name] {
				out = append(out, arg)
			}
			continue
		}

		if !set[arg] {
			continue
		}
		out = append(out, arg)
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}

	return out
}

// ConfigPath returns the JSON config file given with -c or -config, or "" when
// neither is present. When both are given the last one wins.
func ConfigPath() string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
