// Package command turns loosely-typed invocation arguments into a domain.Request.
//
// The transition command takes named parameters style, max and background plus
// one positional free-text note:
//
//	/transition style=noir max=80 background=true They slip out of the tavern.
//	/scene A storm rolls in.
package command

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Name is the canonical command name.
const Name = "transition"

// Aliases are the short names the command also answers to.
var Aliases = []string{"scene", "st"}

// Named parameter keys.
const (
	ParamStyle      = "style"
	ParamMax        = "max"
	ParamBackground = "background"
)

// MaxTokenBudget is the largest accepted max value.
const MaxTokenBudget = math.MaxInt32

// Is reports whether name (with or without a leading slash) invokes the command.
func Is(name string) bool {
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	if name == Name {
		return true
	}
	for _, a := range Aliases {
		if name == a {
			return true
		}
	}
	return false
}

type namedArgs struct {
	Style      string `mapstructure:"style"`
	Max        *int   `mapstructure:"max"`
	Background *bool  `mapstructure:"background"`
}

// Parse builds a request from named parameters and the positional note.
// String values are coerced: max must be a positive integer, background a boolean
// (true/false, 1/0, yes/no, on/off). Unknown parameters are rejected.
func Parse(named map[string]any, note string) (domain.Request, error) {
	var args namedArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       boolWordsHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &args,
	})
	if err != nil {
		return domain.Request{}, err
	}
	if err := dec.Decode(lowerKeys(named)); err != nil {
		return domain.Request{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	if args.Max != nil && *args.Max <= 0 {
		return domain.Request{}, fmt.Errorf("%w: max must be a positive integer, got %d", domain.ErrInvalidArgument, *args.Max)
	}
	if args.Max != nil && *args.Max > MaxTokenBudget {
		return domain.Request{}, fmt.Errorf("%w: max must be at most %d, got %d", domain.ErrInvalidArgument, MaxTokenBudget, *args.Max)
	}

	clean, err := SanitizeNote(note)
	if err != nil {
		return domain.Request{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	return domain.Request{
		Note:       strings.TrimSpace(clean),
		Style:      strings.TrimSpace(args.Style),
		MaxTokens:  args.Max,
		Background: args.Background,
	}, nil
}

// ParseArgs parses tokens as produced by a shell or a slash-command line:
// leading key=value tokens for known parameters, the rest joined as the note.
func ParseArgs(tokens []string) (domain.Request, error) {
	named := make(map[string]any)
	i := 0
	for ; i < len(tokens); i++ {
		key, value, ok := strings.Cut(tokens[i], "=")
		if !ok || !isParam(key) {
			break
		}
		named[strings.ToLower(key)] = value
	}
	return Parse(named, strings.Join(tokens[i:], " "))
}

// ParseLine parses a full slash-command line. ok is false when the line does
// not invoke the transition command.
func ParseLine(line string) (req domain.Request, ok bool, err error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") || !Is(fields[0]) {
		return domain.Request{}, false, nil
	}
	req, err = ParseArgs(fields[1:])
	return req, true, err
}

func isParam(key string) bool {
	switch strings.ToLower(key) {
	case ParamStyle, ParamMax, ParamBackground:
		return true
	}
	return false
}

func lowerKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

// boolWordsHook accepts yes/no/on/off in addition to what strconv.ParseBool understands.
func boolWordsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	word := strings.TrimSpace(reflect.ValueOf(data).String())
	switch strings.ToLower(word) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return word, nil
}
