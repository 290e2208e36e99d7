package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs picks out of args only the flags named in allowedFlags, together
// with their values. It understands both the separated form ("-c conf.json")
// and the joined form ("--config=conf.json").
//
// The result lets a package parse its own flags with flag.ContinueOnError
// without tripping over flags registered elsewhere in the binary.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, name := range allowedFlags {
		allowed[name] = struct{}{}
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") {
			if name, _, joined := strings.Cut(arg, "="); joined {
				// joined form: keep "flag=value" whole
				if _, ok := allowed[name]; ok {
					kept = append(kept, arg)
				}
				continue
			}
		}

		if _, ok := allowed[arg]; ok {
			kept = append(kept, arg)
			// a following non-flag argument is this flag's value
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				kept = append(kept, args[i])
			}
		}
	}

	return kept
}

// JsonConfigFlags extracts the config file path given via -c or -config.
// Returns an empty string when neither flag is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
